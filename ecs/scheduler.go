package ecs

import (
	"slices"
	"sort"
	"strconv"
)

// System updates a world each tick.
type System interface {
	Update(w *World)
}

// Phase orders systems within a tick. Systems sharing a phase run in the
// order they were added.
type Phase int

const (
	PhaseInput Phase = iota
	PhaseConfig
	PhaseContact
	PhaseSimulate
	PhaseOutput
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseConfig:
		return "config"
	case PhaseContact:
		return "contact"
	case PhaseSimulate:
		return "simulate"
	case PhaseOutput:
		return "output"
	}
	return "phase(" + strconv.Itoa(int(p)) + ")"
}

type scheduled struct {
	phase  Phase
	system System
}

type Scheduler struct {
	systems []scheduled
}

func (s *Scheduler) Add(phase Phase, system System) {
	if system == nil {
		return
	}
	i := sort.Search(len(s.systems), func(i int) bool { return s.systems[i].phase > phase })
	s.systems = slices.Insert(s.systems, i, scheduled{phase: phase, system: system})
}

func (s *Scheduler) Update(w *World) {
	for _, entry := range s.systems {
		entry.system.Update(w)
	}
}

func (s *Scheduler) Len() int {
	return len(s.systems)
}
