// services/cleanup.go - Background maintenance
package services

import (
	"log"
	"time"
)

// CleanupService periodically sweeps expired exam sessions: sessions
// past their deadline are auto-submitted, submitted ones past the grace
// window are dropped from memory.
type CleanupService struct {
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

var cleanupService *CleanupService

// InitCleanupService initializes and starts the singleton cleanup service.
func InitCleanupService() {
	cleanupService = &CleanupService{
		interval: time.Minute,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go cleanupService.run()
}

// GetCleanupService returns the initialized cleanup service.
func GetCleanupService() *CleanupService {
	return cleanupService
}

func (s *CleanupService) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-s.stop:
			return
		}
	}
}

// Sweep runs one maintenance pass.
func (s *CleanupService) Sweep() {
	es := GetExamService()
	if es == nil {
		return
	}
	if n := es.SweepExpired(time.Now()); n > 0 {
		log.Printf("Auto-submitted %d expired exam session(s)", n)
	}
}

// Stop shuts the worker down and waits for it to exit.
func (s *CleanupService) Stop() {
	close(s.stop)
	<-s.done
}
