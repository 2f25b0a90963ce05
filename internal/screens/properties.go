package screens

import (
	"context"
	"strings"
	"sync"

	"bookbnb/internal/domain"
	"bookbnb/internal/models"

	"github.com/rs/zerolog"
)

// Filter narrows the property list locally, like the search form on the listing page.
type Filter struct {
	Location string
	Guests   int
}

func (f Filter) match(p models.Property) bool {
	if f.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(strings.TrimSpace(f.Location))) {
		return false
	}
	if f.Guests > 0 && p.MaxGuests < f.Guests {
		return false
	}
	return true
}

type PropertiesScreen struct {
	api    domain.PropertiesAPI
	logger *zerolog.Logger

	mu     sync.RWMutex
	view   View
	all    []models.Property
	filter Filter
}

func NewPropertiesScreen(api domain.PropertiesAPI, logger *zerolog.Logger) *PropertiesScreen {
	return &PropertiesScreen{api: api, logger: nopLogger(logger)}
}

func (s *PropertiesScreen) Load(ctx context.Context) error {
	s.mu.Lock()
	s.view = View{Status: StatusLoading}
	s.mu.Unlock()

	props, err := s.api.ListProperties(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load properties")
		s.all = nil
		s.view = failedView(err)
		return err
	}
	s.all = props
	s.refreshView()
	return nil
}

func (s *PropertiesScreen) SetFilter(f Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	if s.view.Status == StatusReady || s.view.Status == StatusEmpty {
		s.refreshView()
	}
}

// Properties returns the loaded list with the current filter applied.
func (s *PropertiesScreen) Properties() []models.Property {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered()
}

func (s *PropertiesScreen) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *PropertiesScreen) filtered() []models.Property {
	out := make([]models.Property, 0, len(s.all))
	for _, p := range s.all {
		if s.filter.match(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *PropertiesScreen) refreshView() {
	switch {
	case len(s.all) == 0:
		s.view = View{Status: StatusEmpty, Message: "No properties available yet"}
	case len(s.filtered()) == 0:
		s.view = View{Status: StatusEmpty, Message: "No properties match your search"}
	default:
		s.view = View{Status: StatusReady}
	}
}
