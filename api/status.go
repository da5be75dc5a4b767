package api

import "sync"

// Status holds the latest values computed from the most recent telegram, for serving to
// HTTP clients. It is written by the dispatch loop and read by request handlers.
type Status struct {
	mu       sync.RWMutex
	power    float64 // current net power, kW, positive for import
	dayTotal float64 // net energy used since the last day boundary, kWh
}

// Set records the values computed from the latest reading.
func (s *Status) Set(power, dayTotal float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.power = power
	s.dayTotal = dayTotal
}

// Power returns the latest net power in kW.
func (s *Status) Power() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.power
}

// DayTotal returns the latest day total in kWh.
func (s *Status) DayTotal() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dayTotal
}
