// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package playtime

import (
	"fmt"
	"time"
)

// Localizer converts UTC instants into the service's single configured
// timezone. Local-date attribution for every downstream query depends on
// it, so construction fails fast on an unresolvable zone instead of
// silently falling back to UTC.
type Localizer struct {
	name string
	loc  *time.Location
}

// NewLocalizer resolves an IANA timezone identifier (e.g. "America/New_York").
func NewLocalizer(name string) (*Localizer, error) {
	if name == "" {
		return nil, fmt.Errorf("timezone identifier is empty")
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve timezone %q: %w", name, err)
	}

	return &Localizer{name: name, loc: loc}, nil
}

// Name returns the configured IANA identifier.
func (l *Localizer) Name() string {
	return l.name
}

// ToLocal converts an instant to the target timezone. Each converted
// instant carries its own correct UTC offset, so the two endpoints of a
// session spanning a DST transition render with different offsets.
func (l *Localizer) ToLocal(t time.Time) time.Time {
	return t.In(l.loc)
}

// LocalDate returns the calendar date of an instant in the target timezone.
func (l *Localizer) LocalDate(t time.Time) string {
	return t.In(l.loc).Format(DateLayout)
}
