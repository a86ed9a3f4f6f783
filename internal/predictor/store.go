package predictor

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BestSource identifies where the active best-split record came from.
type BestSource uint8

const (
	SourceNone BestSource = iota
	SourceLocal
	SourceRemote
)

func (s BestSource) String() string {
	switch s {
	case SourceLocal:
		return "local"
	case SourceRemote:
		return "remote"
	default:
		return "none"
	}
}

// SplitStore owns the authoritative best-split record for the current map and
// reconciles the local database with the remote split service. All of its
// mutable state is touched only from the tick loop; remote work completes on
// request handles that are polled, never waited on.
//
// The remote save queue is deliberately unbounded: rapid repeated finishes
// queue up and drain one at a time, and losing runs to a cap was judged worse
// than the memory of a backlog that in practice stays tiny.
type SplitStore struct {
	local  LocalStore
	remote RemoteClient
	logger Logger

	fetchType FetchType

	mapID      string
	best       SplitRecord
	bestSource BestSource

	fetch      *FetchRequest
	wantRemote bool

	save  *SaveRequest
	queue []PendingSave

	lastError string
}

func NewSplitStore(local LocalStore, remote RemoteClient, fetchType FetchType, logger Logger) *SplitStore {
	if fetchType == "" {
		fetchType = FetchPersonalBest
	}

	return &SplitStore{
		local:     local,
		remote:    remote,
		fetchType: fetchType,
		logger:    logger,
	}
}

// OnMapChange loads the best record for the new map: the local database
// immediately, then an asynchronous remote refresh when a remote client is
// configured. Prediction continues under the local data until the remote
// fetch lands.
func (s *SplitStore) OnMapChange(mapID string) {
	s.mapID = mapID
	s.best = nil
	s.bestSource = SourceNone

	s.loadLocal(mapID)

	if s.remote != nil {
		s.wantRemote = true

		if err := s.RequestRemoteBest(); err != nil {
			// an in-flight fetch for the old map; its result will be
			// discarded on completion and the want flag retries then
			s.logger.Debugf("Remote splits fetch for %s deferred: %s", mapID, err)
		}
	}
}

func (s *SplitStore) loadLocal(mapID string) {
	record, err := s.local.Load(mapID)

	switch {
	case err == nil:
		if record.Covers(0) && !record.IsZero() {
			s.best = record
			s.bestSource = SourceLocal
			s.logger.Infof("Loaded local best splits for map %s: %s", mapID, FormatRaceTime(record.FinalTime()))
		}
	case errors.Is(err, ErrRecordNotFound):
		s.logger.Debugf("No local best splits for map %s", mapID)
	default:
		// degrade to a zeroed record rather than propagating
		s.lastError = err.Error()
		s.logger.WithError(err).Errorf("Could not load local best splits for map %s", mapID)
	}
}

// RequestRemoteBest starts a remote best-split fetch for the current map.
// Only one fetch may be in flight at a time; a newer map entry supersedes an
// older fetch rather than queueing behind it, so a busy store returns
// ErrFetchBusy.
func (s *SplitStore) RequestRemoteBest() error {
	if s.remote == nil {
		return nil
	}

	if s.fetch != nil && !s.fetch.Done() {
		return ErrFetchBusy
	}

	s.fetch = s.remote.StartFetch(s.mapID, s.fetchType)
	s.wantRemote = false

	return nil
}

// SaveFinishedRun persists a completed run. The local compare-and-swap runs
// unconditionally regardless of remote state; every finished run is also
// queued for remote submission, one submission in flight at a time. Returns
// true when the run became the new local best.
func (s *SplitStore) SaveFinishedRun(mapID string, run SplitRecord, runDate time.Time) bool {
	final := run.FinalTime()
	activeFinal := s.best.FinalTime()
	newBest := false

	if activeFinal == 0 || final < activeFinal {
		if err := s.local.Save(mapID, run); err != nil {
			s.lastError = err.Error()
			s.logger.WithError(err).Errorf("Could not save local best splits for map %s", mapID)
		} else {
			s.best = run.Clone()
			s.bestSource = SourceLocal
			newBest = true
			localBestOverwrites.Inc()
			s.logger.Infof("New local best for map %s: %s", mapID, FormatRaceTime(final))
		}
	} else if _, err := s.local.Load(mapID); errors.Is(err, ErrRecordNotFound) {
		// the active best came from the remote service; still seed the local
		// file so the map has an offline baseline
		if err := s.local.Save(mapID, run); err != nil {
			s.lastError = err.Error()
			s.logger.WithError(err).Errorf("Could not seed local splits for map %s", mapID)
		}
	}

	if s.remote != nil {
		pending := PendingSave{
			ID:      uuid.New().String(),
			MapID:   mapID,
			Record:  run.Clone(),
			RunDate: runDate,
		}

		if s.save != nil {
			s.queue = append(s.queue, pending)
			s.logger.Debugf("Remote save in flight, queued run %s (%d waiting)", pending.ID, len(s.queue))
		} else {
			s.save = s.remote.StartSave(pending)
		}
	}

	return newBest
}

// Poll reaps completed remote work and starts deferred work. Called once per
// tick; never blocks.
func (s *SplitStore) Poll() {
	s.pollFetch()
	s.pollSave()

	if s.wantRemote && s.fetch == nil {
		if err := s.RequestRemoteBest(); err != nil {
			s.logger.Debugf("Remote splits fetch still deferred: %s", err)
		}
	}
}

func (s *SplitStore) pollFetch() {
	if s.fetch == nil || !s.fetch.Done() {
		return
	}

	fetch := s.fetch
	s.fetch = nil

	record, err := fetch.Result()

	if fetch.MapID != s.mapID {
		// superseded by a newer map entry; the transport was not cancelled
		// but its result no longer applies
		s.logger.Debugf("Discarding stale remote splits for map %s (now on %s)", fetch.MapID, s.mapID)
		return
	}

	if err != nil {
		remoteFetchResults.WithLabelValues("failure").Inc()
		s.lastError = err.Error()
		s.logger.WithError(err).Errorf("Remote splits fetch failed for map %s, keeping %s data", fetch.MapID, s.bestSource)

		if s.bestSource == SourceNone {
			s.loadLocal(fetch.MapID)
		}

		return
	}

	remoteFetchResults.WithLabelValues("success").Inc()
	s.best = record
	s.bestSource = SourceRemote
	s.logger.Infof("Loaded remote best splits for map %s: %s", fetch.MapID, FormatRaceTime(record.FinalTime()))
}

func (s *SplitStore) pollSave() {
	if s.save == nil || !s.save.Done() {
		return
	}

	save := s.save
	s.save = nil

	if err := save.Err(); err != nil {
		remoteSaveResults.WithLabelValues("failure").Inc()
		s.lastError = err.Error()
		s.logger.WithError(err).Errorf("Remote save of run %s failed", save.Save.ID)
	} else {
		remoteSaveResults.WithLabelValues("success").Inc()
		s.logger.Infof("Saved run %s to the remote service", save.Save.ID)
	}

	if len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.save = s.remote.StartSave(next)
	}
}

// Best is the active best-split record. Callers treat it as a read-only
// snapshot for the duration of a tick.
func (s *SplitStore) Best() SplitRecord {
	return s.best
}

func (s *SplitStore) BestSource() BestSource {
	return s.bestSource
}

// QueueLen reports how many finished runs are waiting behind the in-flight
// remote save.
func (s *SplitStore) QueueLen() int {
	return len(s.queue)
}

// LastError is the most recent failure, retained for diagnostic display.
// Failures never abort a tick.
func (s *SplitStore) LastError() string {
	return s.lastError
}

// SetToken forwards the latest bearer token from the authentication
// collaborator to the remote client.
func (s *SplitStore) SetToken(token string) {
	if s.remote != nil {
		s.remote.SetToken(token)
	}
}
