package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/Holy-Spoon/Subway-System-Planner/internal/config"
	"github.com/Holy-Spoon/Subway-System-Planner/internal/console"
	"github.com/Holy-Spoon/Subway-System-Planner/internal/static"
)

func main() {
	station := flag.String("station", console.DefaultStation, "Current station")
	line := flag.String("line", console.DefaultLine, "Current line")
	dest := flag.String("dest", console.DefaultDestination, "Destination station")
	at := flag.String("time", console.DefaultTime.String(), "Departure time as HHMM")
	interactive := flag.Bool("i", false, "Read commands from stdin after running the arguments")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintln(out, "Usage: metroquery [flags] [command[,command...]]")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Commands: stations, stations-by-name, lines, lines-of-station,")
		fmt.Fprintln(out, "stations-on-line, same-line, next, trip, help")
		fmt.Fprintln(out)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	src, closeSource, err := static.OpenSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open schedule source: %v", err)
	}
	defer closeSource()

	network, report, err := static.NewLoader(src, static.Options{NameSeparator: cfg.StationNameSeparator}).Load(ctx)
	if err != nil {
		log.Fatalf("Failed to load schedule: %v", err)
	}
	if len(report.Errors) > 0 {
		log.Printf("Loaded with %d warnings", len(report.Errors))
	}

	session := console.NewSession(network, os.Stdout, cfg.StationNameSeparator)
	setup := []string{
		"station " + *station,
		"line " + *line,
		"dest " + *dest,
		"time " + *at,
	}
	for _, cmd := range setup {
		session.Execute(cmd)
	}

	// Commands are separated by commas so names can contain spaces:
	//   metroquery -station Duomo next, trip
	if args := strings.Join(flag.Args(), " "); args != "" {
		for _, cmd := range strings.Split(args, ",") {
			if session.Execute(cmd) {
				return
			}
		}
	} else if !*interactive {
		session.Execute("help")
	}

	if *interactive {
		if err := session.Run(os.Stdin); err != nil {
			log.Fatalf("Console failed: %v", err)
		}
	}
}
