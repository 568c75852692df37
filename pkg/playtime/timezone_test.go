// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"testing"
	"time"
)

func TestNewLocalizer(t *testing.T) {
	tests := []struct {
		name    string
		zone    string
		wantErr bool
	}{
		{name: "valid IANA zone", zone: "America/New_York", wantErr: false},
		{name: "UTC", zone: "UTC", wantErr: false},
		{name: "empty identifier", zone: "", wantErr: true},
		{name: "garbage identifier", zone: "Not/A_Zone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLocalizer(tt.zone)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewLocalizer(%q) expected error, got nil", tt.zone)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLocalizer(%q) error = %v", tt.zone, err)
			}
			if l.Name() != tt.zone {
				t.Errorf("Name() = %q, expected %q", l.Name(), tt.zone)
			}
		})
	}
}

func TestLocalizer_LocalDate(t *testing.T) {
	l := mustLocalizer(t, "Asia/Tokyo")

	// 16:00 UTC is already the next calendar day in Tokyo (UTC+9).
	instant := time.Date(2026, 7, 10, 16, 0, 0, 0, time.UTC)

	if got := l.LocalDate(instant); got != "2026-07-11" {
		t.Errorf("LocalDate() = %q, expected 2026-07-11", got)
	}

	local := l.ToLocal(instant)
	if local.Hour() != 1 {
		t.Errorf("ToLocal() hour = %d, expected 1", local.Hour())
	}
	if !local.Equal(instant) {
		t.Error("ToLocal() changed the instant, expected only the representation to change")
	}
}
