package schedule

import (
	"testing"

	"github.com/xaenox/commute-alert-bot/internal/models"
)

func TestParseDayTime(t *testing.T) {
	tests := []struct {
		input   string
		want    models.DayTime
		wantErr bool
	}{
		{input: "09:30", want: models.DayTime{Hour: 9, Minute: 30}},
		{input: "17:45", want: models.DayTime{Hour: 17, Minute: 45}},
		{input: "00:00", want: models.DayTime{}},
		{input: "23:59", want: models.DayTime{Hour: 23, Minute: 59}},
		{input: "9:05", want: models.DayTime{Hour: 9, Minute: 5}},
		{input: "  08:00 ", want: models.DayTime{Hour: 8}},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "-1:30", wantErr: true},
		{input: "12", wantErr: true},
		{input: "12:30:00", wantErr: true},
		{input: "ab:cd", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDayTime(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDayTime(%q) = %v, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDayTime(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseDayTime(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}
