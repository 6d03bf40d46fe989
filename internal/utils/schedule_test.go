package utils

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseWorkDays(t *testing.T) {
	tests := []struct {
		name     string
		workDays string
		want     []int
		wantErr  bool
	}{
		{"full week", "1,2,3,4,5,6,7", []int{1, 2, 3, 4, 5, 6, 7}, false},
		{"weekdays", "1,2,3,4,5", []int{1, 2, 3, 4, 5}, false},
		{"with spaces", "1, 2, 3", []int{1, 2, 3}, false},
		{"duplicates collapsed", "1,1,2", []int{1, 2}, false},
		{"empty", "", nil, false},
		{"zero day", "0,1", nil, true},
		{"day out of range", "1,8", nil, true},
		{"not a number", "1,mon", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWorkDays(tt.workDays)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseWorkDays(%s) error = %v, wantErr %v", tt.workDays, err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWorkDays(%s) = %v, want %v", tt.workDays, got, tt.want)
			}
		})
	}
}

func TestValidateWorkHours(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr bool
	}{
		{"valid day", "09:00", "18:00", false},
		{"early start", "00:00", "23:59", false},
		{"start equals end", "09:00", "09:00", true},
		{"start after end", "18:00", "09:00", true},
		{"bad start format", "9am", "18:00", true},
		{"bad end format", "09:00", "25:00", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWorkHours(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWorkHours(%s, %s) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestValidateWorkHoursSentinel(t *testing.T) {
	if err := ValidateWorkHours("10:00", "10:00"); !errors.Is(err, ErrStartAfterEnd) {
		t.Errorf("ValidateWorkHours() error = %v, want %v", err, ErrStartAfterEnd)
	}
}
