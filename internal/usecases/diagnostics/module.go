package diagnostics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astro-api/internal/ports/persistence"
)

const (
	statusRunning      = "✅ Running"
	statusNotAvailable = "❌ Not Available"
	statusAvailable    = "✅ Available"
	statusWorking      = "✅ Connected & Working"
	statusNotInit      = "⚠️  Available but not initialized"
	statusSet          = "✅ Set"
	statusNotSet       = "❌ Not Set"

	connected    = "Connected"
	notConnected = "Not Connected"

	maxCollections = 10
	maxErrorLen    = 50
	checkTimeout   = 3 * time.Second
)

// Snapshot ответ /test
type Snapshot struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}

// Service диагностика подключения к хранилищу документов.
// Store может быть nil, если хранилище не инициализировано.
type Service struct {
	Store           persistence.IDocumentStore
	DatabaseURLSet  bool
	DatabaseNameSet bool
	Log             *slog.Logger
}

func New(store persistence.IDocumentStore, databaseURLSet, databaseNameSet bool, log *slog.Logger) *Service {
	return &Service{
		Store:           store,
		DatabaseURLSet:  databaseURLSet,
		DatabaseNameSet: databaseNameSet,
		Log:             log,
	}
}

// Snapshot никогда не падает: ошибки и паники проверок превращаются в строки статуса
func (s *Service) Snapshot(ctx context.Context) (snap Snapshot) {
	snap = Snapshot{
		Backend:          statusRunning,
		Database:         statusNotAvailable,
		ConnectionStatus: notConnected,
		Collections:      []string{},
	}

	defer func() {
		snap.DatabaseURL = setOrNot(s.DatabaseURLSet)
		snap.DatabaseName = setOrNot(s.DatabaseNameSet)
	}()

	defer func() {
		if r := recover(); r != nil {
			s.Log.Error("diagnostics check panicked", "panic", r)
			snap.Database = "❌ Error: " + truncate(fmt.Sprint(r))
		}
	}()

	s.checkStore(ctx, &snap)
	return snap
}

func (s *Service) checkStore(ctx context.Context, snap *Snapshot) {
	if s.Store == nil {
		snap.Database = statusNotInit
		return
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := s.Store.Ping(ctx); err != nil {
		s.Log.Warn("diagnostics: store ping failed", "error", err, "store", s.Store.Name())
		snap.Database = "❌ Error: " + truncate(err.Error())
		return
	}

	snap.Database = statusAvailable
	snap.ConnectionStatus = connected

	collections, err := s.Store.ListCollections(ctx)
	if err != nil {
		s.Log.Warn("diagnostics: list collections failed", "error", err, "store", s.Store.Name())
		snap.Database = "⚠️  Connected but Error: " + truncate(err.Error())
		return
	}

	if len(collections) > maxCollections {
		collections = collections[:maxCollections]
	}
	if collections != nil {
		snap.Collections = collections
	}
	snap.Database = statusWorking
}

func setOrNot(ok bool) string {
	if ok {
		return statusSet
	}
	return statusNotSet
}

func truncate(msg string) string {
	r := []rune(msg)
	if len(r) > maxErrorLen {
		return string(r[:maxErrorLen])
	}
	return msg
}
