// Package console runs a text session against a loaded network. The session
// keeps a current station, line, destination and time, and every query command
// works on those.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/transit"
)

// Defaults for a new session.
const (
	DefaultStation     = "Zara"
	DefaultLine        = "M1-north"
	DefaultDestination = "Brenta"
	DefaultTime        = transit.Clock(1200)
)

// Session is one console user's state.
type Session struct {
	net *transit.Network
	out io.Writer
	sep string // joins name tokens typed by the user

	station string
	line    string
	dest    string
	time    transit.Clock
}

// NewSession starts a session with the default selections. nameSep must be
// the separator the network was loaded with so typed names match.
func NewSession(net *transit.Network, out io.Writer, nameSep string) *Session {
	return &Session{
		net:     net,
		out:     out,
		sep:     nameSep,
		station: DefaultStation,
		line:    DefaultLine,
		dest:    DefaultDestination,
		time:    DefaultTime,
	}
}

func (s *Session) Station() string     { return s.station }
func (s *Session) Line() string        { return s.line }
func (s *Session) Destination() string { return s.dest }
func (s *Session) Time() transit.Clock { return s.time }

// Run reads commands from in until EOF or quit.
func (s *Session) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(s.out, "> ")
	for scanner.Scan() {
		if quit := s.Execute(scanner.Text()); quit {
			return nil
		}
		fmt.Fprint(s.out, "> ")
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	return nil
}

// Execute runs one command line and reports whether the session should end.
func (s *Session) Execute(cmdline string) (quit bool) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]
	name := strings.Join(args, s.sep)

	switch cmd {
	case "stations":
		s.printStations(s.net.Stations())
	case "stations-by-name":
		s.printStations(s.net.StationsSorted())
	case "lines":
		for _, l := range s.net.Lines() {
			fmt.Fprintln(s.out, l)
		}
	case "station":
		s.setStation(name)
	case "line":
		s.setLine(name)
	case "dest":
		s.setDestination(name)
	case "time":
		s.setTime(strings.Join(args, ""))
	case "lines-of-station":
		s.linesOfStation()
	case "stations-on-line":
		s.stationsOnLine()
	case "same-line":
		s.sameLine()
	case "next":
		s.next()
	case "trip":
		s.trip()
	case "help":
		s.help()
	case "quit", "exit":
		return true
	default:
		fmt.Fprintf(s.out, "Unknown command %q, type help for a list\n", cmd)
	}
	return false
}

func (s *Session) help() {
	w := tabwriter.NewWriter(s.out, 5, 3, 3, ' ', 0)
	fmt.Fprintln(w, "stations\tall stations in load order")
	fmt.Fprintln(w, "stations-by-name\tall stations sorted by name")
	fmt.Fprintln(w, "lines\tall lines")
	fmt.Fprintln(w, "station <name>\tset current station")
	fmt.Fprintln(w, "line <name>\tset current line")
	fmt.Fprintln(w, "dest <name>\tset destination")
	fmt.Fprintln(w, "time <HHMM>\tset departure time")
	fmt.Fprintln(w, "lines-of-station\tlines serving the current station")
	fmt.Fprintln(w, "stations-on-line\tstations on the current line")
	fmt.Fprintln(w, "same-line\tline from current station to destination")
	fmt.Fprintln(w, "next\tnext departures at the current station")
	fmt.Fprintln(w, "trip\tfirst trip to the destination after the time")
	fmt.Fprintln(w, "quit\tleave")
	w.Flush()
	fmt.Fprintf(s.out, "Current: station %s, line %s, destination %s, time %s\n", s.station, s.line, s.dest, s.time)
}

func (s *Session) printStations(stations []*transit.Station) {
	w := tabwriter.NewWriter(s.out, 5, 3, 3, ' ', 0)
	for _, st := range stations {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n", st.Name(), st.X(), st.Y(), strings.Join(st.Lines(), " "))
	}
	w.Flush()
}

func (s *Session) setStation(name string) {
	if _, err := s.net.Station(name); err != nil {
		fmt.Fprintf(s.out, "No station named %s\n", name)
		return
	}
	s.station = name
	fmt.Fprintf(s.out, "Setting current station to %s\n", name)
}

func (s *Session) setLine(name string) {
	if _, err := s.net.Line(name); err != nil {
		fmt.Fprintf(s.out, "No line named %s\n", name)
		return
	}
	s.line = name
	fmt.Fprintf(s.out, "Setting current line to %s\n", name)
}

func (s *Session) setDestination(name string) {
	if _, err := s.net.Station(name); err != nil {
		fmt.Fprintf(s.out, "No station named %s\n", name)
		return
	}
	s.dest = name
	fmt.Fprintf(s.out, "Setting destination to %s\n", name)
}

func (s *Session) setTime(raw string) {
	t, err := transit.ParseClock(raw)
	switch {
	case errors.Is(err, transit.ErrTimeNotNumeric):
		fmt.Fprintln(s.out, "Enter time as a four digit integer")
		return
	case err != nil:
		fmt.Fprintln(s.out, "Time must be between 0000 and 2359")
		return
	}
	s.time = t
	fmt.Fprintf(s.out, "Setting time to %s\n", t)
}

func (s *Session) linesOfStation() {
	lines, err := s.net.LinesServing(s.station)
	if err != nil {
		s.queryFailed(err)
		return
	}
	if len(lines) == 0 {
		fmt.Fprintf(s.out, "No line serves %s\n", s.station)
		return
	}
	fmt.Fprintf(s.out, "Lines serving %s:\n", s.station)
	for _, l := range lines {
		fmt.Fprintf(s.out, "  %s\n", l.Name())
	}
}

func (s *Session) stationsOnLine() {
	stations, err := s.net.StationsOnLine(s.line)
	if err != nil {
		s.queryFailed(err)
		return
	}
	fmt.Fprintf(s.out, "Stations on %s:\n", s.line)
	s.printStations(stations)
}

func (s *Session) sameLine() {
	conn, err := s.net.SameDirectionLine(s.station, s.dest)
	switch {
	case errors.Is(err, transit.ErrNoResult):
		fmt.Fprintf(s.out, "No subway line goes from %s to %s in that direction.\n", s.station, s.dest)
	case err != nil:
		s.queryFailed(err)
	default:
		fmt.Fprintf(s.out, "Line %s goes from %s to %s (%.2f km)\n", conn.Line.Name(), s.station, s.dest, conn.Distance)
	}
}

func (s *Session) next() {
	departures, err := s.net.NextServices(s.station, s.time)
	if err != nil {
		s.queryFailed(err)
		return
	}
	if len(departures) == 0 {
		fmt.Fprintf(s.out, "No line serves %s\n", s.station)
		return
	}

	w := tabwriter.NewWriter(s.out, 5, 3, 3, ' ', 0)
	fmt.Fprintf(w, "# Line\ttrain\tdeparture\n")
	for _, d := range departures {
		if !d.Found {
			fmt.Fprintf(w, "%s\t-\tnone after %s\n", d.Line.Name(), s.time)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Line.Name(), d.Service.TrainID(), d.Time)
	}
	w.Flush()
}

func (s *Session) trip() {
	trip, err := s.net.FindTrip(s.station, s.dest, s.time)
	var noTrip *transit.NoTripError
	switch {
	case errors.As(err, &noTrip):
		fmt.Fprintf(s.out, "No trip available on line %s after time %s\n", noTrip.Line, s.time)
	case errors.Is(err, transit.ErrNoResult):
		fmt.Fprintf(s.out, "No line connects %s to %s directly in that order.\n", s.station, s.dest)
	case err != nil:
		s.queryFailed(err)
	default:
		fmt.Fprintln(s.out, "Trip Found")
		w := tabwriter.NewWriter(s.out, 5, 3, 3, ' ', 0)
		fmt.Fprintf(w, "  Line\t%s\n", trip.Line.Name())
		fmt.Fprintf(w, "  Train\t%s\n", trip.TrainID)
		fmt.Fprintf(w, "  Depart\t%s at %s\n", trip.From, trip.Departure)
		fmt.Fprintf(w, "  Arrive\t%s at %s\n", trip.To, trip.Arrival)
		fmt.Fprintf(w, "  Distance\t%.2f km\n", trip.Distance)
		w.Flush()
	}
}

// queryFailed prints errors other than "nothing found". The current
// selections are always known names, so this only happens when the network
// lacks the default station or line.
func (s *Session) queryFailed(err error) {
	var entityErr *transit.EntityError
	if errors.As(err, &entityErr) {
		fmt.Fprintf(s.out, "No %s named %s, choose one first\n", entityErr.Kind, entityErr.Name)
		return
	}
	fmt.Fprintf(s.out, "Error: %v\n", err)
}
