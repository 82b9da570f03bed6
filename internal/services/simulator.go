package services

import (
	"drone-dispatch-service/internal/domain"
	"drone-dispatch-service/internal/geo"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"
)

// ErrFlightActive rejects a start request for a drone that is mid-flight.
var ErrFlightActive = errors.New("flight already active")

// SpeedDegreesPerTick converts the fixed 160 km/h cruise speed to degrees
// per one-second tick, at 111 km per degree. Same small-area approximation
// as the planar distance model.
const SpeedDegreesPerTick = 160.0 / 111.0 / 3600.0

// FlightStatus is a drone's simulation state.
type FlightStatus string

const (
	StatusWaiting  FlightStatus = "WAITING"
	StatusFlying   FlightStatus = "FLYING"
	StatusHovering FlightStatus = "HOVERING"
	StatusArrived  FlightStatus = "ARRIVED"
	StatusReturned FlightStatus = "RETURNED"
	StatusStopped  FlightStatus = "STOPPED"
)

// PositionUpdate is one drone's observable state after a tick, shaped for
// the tracking feed.
type PositionUpdate struct {
	DroneID         string       `json:"droneId"`
	Lng             float64      `json:"lng"`
	Lat             float64      `json:"lat"`
	Status          FlightStatus `json:"status"`
	PercentComplete float64      `json:"percentComplete"`
	OrderNumber     string       `json:"orderNumber,omitempty"`
	Timestamp       time.Time    `json:"timestamp"`
}

// flightSession is one drone's mutable simulation record. All access goes
// through the Simulator's lock.
type flightSession struct {
	droneID       string
	path          domain.FlightPath
	index         int
	current       geo.Position
	target        geo.Position
	status        FlightStatus
	orderNumber   string
	returnJourney bool
	active        bool
}

// Simulator advances per-drone flight sessions along precomputed paths, one
// waypoint-or-less per tick. Sessions are kept per drone so multiple flights
// can run at once; a single lock serializes the scheduler starting flights
// against the tick loop advancing them.
type Simulator struct {
	mu       sync.Mutex
	sessions map[string]*flightSession
	speed    float64
	logger   *log.Logger
}

// NewSimulator builds a simulator. A non-positive speed selects the default
// cruise speed.
func NewSimulator(speed float64, logger *log.Logger) *Simulator {
	if speed <= 0 {
		speed = SpeedDegreesPerTick
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Simulator{
		sessions: make(map[string]*flightSession),
		speed:    speed,
		logger:   logger,
	}
}

// StartFlight puts a drone at the head of a path. A start on a drone whose
// previous flight ARRIVED with the same order context is classified as the
// return journey and keeps the context; any other start is a new delivery.
// Starting over an active flight fails rather than silently overriding it.
func (s *Simulator) StartFlight(droneID string, path domain.FlightPath, orderNumber string) error {
	if len(path) == 0 {
		return fmt.Errorf("start flight: drone %s: empty path", droneID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[droneID]
	if session != nil && session.active {
		return fmt.Errorf("start flight: drone %s: %w", droneID, ErrFlightActive)
	}
	if session == nil {
		session = &flightSession{droneID: droneID, status: StatusWaiting}
		s.sessions[droneID] = session
	}

	if session.status == StatusArrived && orderNumber != "" && session.orderNumber == orderNumber {
		session.returnJourney = true
	} else {
		session.returnJourney = false
		session.orderNumber = orderNumber
	}

	session.path = path
	session.index = 0
	session.current = path[0].Position
	session.target = path[0].Position
	if len(path) > 1 {
		session.target = path[1].Position
	}
	session.status = StatusFlying
	session.active = true

	s.logger.Printf("simulator: flight started drone=%s order=%s waypoints=%d return=%t",
		droneID, session.orderNumber, len(path), session.returnJourney)
	return nil
}

// Tick advances every active session by one simulated second and returns
// their updates, including the terminal update of a session that finished on
// this tick.
func (s *Simulator) Tick() []PositionUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var updates []PositionUpdate
	for _, session := range s.sessions {
		if !session.active {
			continue
		}
		orderBefore := session.orderNumber
		s.advance(session)

		// A RETURNED session has already cleared its context; the terminal
		// update still reports the order it closed.
		u := session.update(now)
		if u.OrderNumber == "" {
			u.OrderNumber = orderBefore
		}
		updates = append(updates, u)
	}
	return updates
}

// advance moves one session one tick. Caller holds the lock.
func (s *Simulator) advance(session *flightSession) {
	d := geo.Distance(session.current, session.target)

	if d < s.speed*2 {
		session.index++
		if session.index >= len(session.path) {
			s.finish(session)
			return
		}

		session.current = session.path[session.index].Position
		if session.index+1 < len(session.path) {
			session.target = session.path[session.index+1].Position
			if domain.IsHoverPair(session.path[session.index], session.path[session.index+1]) {
				session.status = StatusHovering
				return
			}
		} else {
			session.target = session.current
		}
		session.status = StatusFlying
		return
	}

	bearing := math.Atan2(session.target.Lat-session.current.Lat, session.target.Lng-session.current.Lng)
	session.current.Lng += s.speed * math.Cos(bearing)
	session.current.Lat += s.speed * math.Sin(bearing)
	session.status = StatusFlying
}

// finish retires a session at the end of its path.
func (s *Simulator) finish(session *flightSession) {
	if session.returnJourney {
		session.status = StatusReturned
		session.returnJourney = false
		session.orderNumber = ""
	} else {
		session.status = StatusArrived
	}
	session.active = false
	s.logger.Printf("simulator: flight finished drone=%s status=%s", session.droneID, session.status)
}

// StopFlight cancels a drone's flight. Calling it for an idle or unknown
// drone is a no-op.
func (s *Simulator) StopFlight(droneID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[droneID]
	if session == nil {
		return
	}
	session.status = StatusStopped
	session.active = false
	session.orderNumber = ""
	session.returnJourney = false
}

// Position reports a drone's current state, if the drone has ever flown.
func (s *Simulator) Position(droneID string) (PositionUpdate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[droneID]
	if session == nil {
		return PositionUpdate{}, false
	}
	return session.update(time.Now()), true
}

// AnyActive reports whether any drone is mid-flight.
func (s *Simulator) AnyActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, session := range s.sessions {
		if session.active {
			return true
		}
	}
	return false
}

// IsActive reports whether one drone is mid-flight.
func (s *Simulator) IsActive(droneID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	session := s.sessions[droneID]
	return session != nil && session.active
}

func (f *flightSession) update(now time.Time) PositionUpdate {
	progress := 0.0
	if len(f.path) > 0 {
		progress = float64(f.index) / float64(len(f.path)) * 100
		if progress > 100 {
			progress = 100
		}
	}
	return PositionUpdate{
		DroneID:         f.droneID,
		Lng:             f.current.Lng,
		Lat:             f.current.Lat,
		Status:          f.status,
		PercentComplete: progress,
		OrderNumber:     f.orderNumber,
		Timestamp:       now,
	}
}
