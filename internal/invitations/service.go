package invitations

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Dispatcher enqueues one invitation delivery per guest.
type Dispatcher interface {
	EnqueueSendInvite(ctx context.Context, guestID, weddingID string) error
}

// Service coordinates invitation dispatch.
type Service struct {
	repo       Repository
	dispatcher Dispatcher
	logger     *slog.Logger
}

// NewService constructs Service instance.
func NewService(repo Repository, dispatcher Dispatcher, logger *slog.Logger) *Service {
	return &Service{repo: repo, dispatcher: dispatcher, logger: logger}
}

// QueueDispatch loads the requested guests for the wedding and enqueues one
// send-invite job per deliverable guest. Guests without a phone number, or
// already invited, are skipped. Returns how many jobs were queued.
func (s *Service) QueueDispatch(ctx context.Context, weddingID string, guestIDs []string) (int, error) {
	guests, err := s.repo.GuestsForDispatch(ctx, weddingID, guestIDs)
	if err != nil {
		return 0, err
	}

	// Queue in Italian alphabetical order so delivery follows the guest list.
	coll := collate.New(language.Italian)
	sort.Slice(guests, func(i, j int) bool {
		if c := coll.CompareString(guests[i].Cognome, guests[j].Cognome); c != 0 {
			return c < 0
		}
		return coll.CompareString(guests[i].Nome, guests[j].Nome) < 0
	})

	queued := 0
	for _, g := range guests {
		if g.InvitoInviato {
			if s.logger != nil {
				s.logger.Info("invitations: already invited, skipping", "guest_id", g.ID)
			}
			continue
		}
		if g.Telefono == "" {
			if s.logger != nil {
				s.logger.Warn("invitations: no phone number, skipping", "guest_id", g.ID)
			}
			continue
		}
		if err := s.dispatcher.EnqueueSendInvite(ctx, g.ID, weddingID); err != nil {
			return queued, fmt.Errorf("invitations: enqueue guest %s: %w", g.ID, err)
		}
		queued++
	}
	return queued, nil
}
