package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/remote"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

type configurationStore struct {
	cli remote.Client
	v   *validator.Validate
	l   logger.Logger

	mu      sync.RWMutex
	current *models.Configuration
	subs    []func(ctx context.Context, cfg models.Configuration)
}

func NewConfigurationStore(cli remote.Client, l logger.Logger) ConfigurationStore {
	return &configurationStore{
		cli: cli,
		v:   newConfigurationValidator(),
		l:   l,
	}
}

func (s *configurationStore) Load(ctx context.Context) (models.Configuration, error) {
	cfg, err := s.cli.GetConfiguration(ctx)
	if err != nil {
		if errors.Is(err, dbErrors.ErrConfigurationNotFound) {
			s.l.Infof(ctx, "service.configurationStore.Load: no configuration stored yet")
			return models.Configuration{}, err
		}
		s.l.Errorf(ctx, "service.configurationStore.Load: %v", err)
		return models.Configuration{}, fmt.Errorf("load configuration: %w", err)
	}

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	return *cfg, nil
}

func (s *configurationStore) Save(ctx context.Context, candidate models.Configuration) (models.Configuration, error) {
	if err := validateConfiguration(s.v, candidate); err != nil {
		s.l.Warnf(ctx, "service.configurationStore.Save: %v", err)
		return models.Configuration{}, err
	}

	saved, err := s.cli.SaveConfiguration(ctx, candidate)
	if err != nil {
		s.l.Errorf(ctx, "service.configurationStore.Save: %v", err)
		return models.Configuration{}, fmt.Errorf("save configuration: %w", err)
	}

	s.mu.Lock()
	s.current = saved
	subs := append([]func(context.Context, models.Configuration){}, s.subs...)
	s.mu.Unlock()

	s.l.Infow(ctx, "Configuration saved",
		"total_tickets", saved.TotalTickets,
		"max_ticket_capacity", saved.MaxTicketCapacity,
		"ticket_release_rate", saved.TicketReleaseRate,
		"customer_retrieval_rate", saved.CustomerRetrievalRate,
	)

	for _, fn := range subs {
		fn(ctx, *saved)
	}

	return *saved, nil
}

func (s *configurationStore) Current() (models.Configuration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return models.Configuration{}, false
	}
	return *s.current, true
}

func (s *configurationStore) OnSave(fn func(ctx context.Context, cfg models.Configuration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func newConfigurationValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateConfiguration turns validator failures into a ValidationError with operator-facing reasons.
func validateConfiguration(v *validator.Validate, cfg models.Configuration) error {
	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return dbErrors.NewValidationError(err.Error())
	}

	reasons := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "gt":
			reasons = append(reasons, fmt.Sprintf("%s must be greater than 0", fe.Field()))
		case "ltefield":
			reasons = append(reasons, "maxTicketCapacity cannot be greater than totalTickets")
		default:
			reasons = append(reasons, fmt.Sprintf("%s is invalid (%s)", fe.Field(), fe.Tag()))
		}
	}

	return dbErrors.NewValidationError(reasons...)
}
