package services

import (
	"errors"
	"testing"

	"dorm-backend/models"
)

func TestValidateTarget(t *testing.T) {
	cases := []struct {
		name    string
		in      SubmitBookingInput
		wantErr bool
	}{
		{
			name: "on-campus room",
			in:   SubmitBookingInput{RequestedRoomID: 3},
		},
		{
			name: "on-campus room with hostel and bed",
			in:   SubmitBookingInput{RequestedHostelID: 1, RequestedRoomID: 3, RequestedBed: "Bed B"},
		},
		{
			name: "off-campus address",
			in:   SubmitBookingInput{OffCampusHostelName: "Blue House", OffCampusArea: "Kazanchis"},
		},
		{
			name:    "both targets",
			in:      SubmitBookingInput{RequestedRoomID: 3, OffCampusHostelName: "Blue House"},
			wantErr: true,
		},
		{
			name:    "no target",
			in:      SubmitBookingInput{},
			wantErr: true,
		},
		{
			name:    "hostel without room",
			in:      SubmitBookingInput{RequestedHostelID: 1},
			wantErr: true,
		},
		{
			name:    "bed without room",
			in:      SubmitBookingInput{RequestedBed: "Bed A"},
			wantErr: true,
		},
		{
			name:    "off-campus area without hostel name",
			in:      SubmitBookingInput{OffCampusArea: "Kazanchis"},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.in.validateTarget()
			if tc.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("expected ErrValidation, got %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestParseRequestType(t *testing.T) {
	cases := []struct {
		in      string
		want    models.RequestType
		wantErr bool
	}{
		{"new", models.RequestTypeNew, false},
		{"transfer", models.RequestTypeTransfer, false},
		{" Transfer ", models.RequestTypeTransfer, false},
		{"NEW", models.RequestTypeNew, false},
		{"swap", "", true},
		{"", "", true},
	}

	for _, tc := range cases {
		got, err := parseRequestType(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrValidation) {
				t.Errorf("parseRequestType(%q): expected ErrValidation, got %v", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("parseRequestType(%q) = (%q, %v), want %q", tc.in, got, err, tc.want)
		}
	}
}
