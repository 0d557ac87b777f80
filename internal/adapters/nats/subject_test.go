package natsadapter_test

import (
	"testing"

	natsadapter "github.com/samirrijal/waypath/internal/adapters/nats"
	"github.com/samirrijal/waypath/internal/core/domain"
)

func TestSubject(t *testing.T) {
	cases := []struct {
		event domain.ItineraryEvent
		want  string
	}{
		{domain.ItineraryEvent{Type: domain.EventBuilt, TripID: "t1"}, "itinerary.built.t1"},
		{domain.ItineraryEvent{Type: domain.EventEdited, TripID: "abc-123"}, "itinerary.edited.abc-123"},
	}
	for _, tc := range cases {
		if got := natsadapter.Subject(&tc.event); got != tc.want {
			t.Errorf("Subject(%+v) = %q, want %q", tc.event, got, tc.want)
		}
	}
}
