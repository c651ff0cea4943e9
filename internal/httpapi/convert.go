package httpapi

import (
	"github.com/mhollander/limen/internal/limen/store"
	"github.com/mhollander/limen/internal/limen/types"
)

func eventView(ev store.AccessEvent) types.AccessEventView {
	return types.AccessEventView{
		ID:          ev.ID,
		Timestamp:   ev.Timestamp,
		Description: ev.Description,
		PersonName:  ev.PersonName,
		Confidence:  ev.Confidence,
		Granted:     ev.Granted,
	}
}

func eventViews(events []store.AccessEvent) []types.AccessEventView {
	out := make([]types.AccessEventView, 0, len(events))
	for _, ev := range events {
		out = append(out, eventView(ev))
	}
	return out
}
