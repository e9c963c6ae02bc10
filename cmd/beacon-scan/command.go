package main

import (
	"strconv"
	"time"

	"github.com/docopt/docopt-go"
)

var usage = `beacon-scan - an iBeacon region scanner

Usage:
  beacon-scan scan <uuid> [--major=<n> --minor=<n> --timeout=<duration> --output=<path>]
  beacon-scan simulate <uuid> [--major=<n> --minor=<n> --timeout=<duration> --output=<path>]

Options:
  -m --major=<n>            Only match beacons with this major value.
  -n --minor=<n>            Only match beacons with this minor value.
  -t --timeout=<duration>   The scan timeout [default: 15s].
  -o --output=<path>        Write the scan report to this YAML file.
  -h --help                 Show this screen.
`

type command struct {
	// commands
	cScan     bool
	cSimulate bool

	// arguments
	aUUID string

	// options
	oMajor   *uint16
	oMinor   *uint16
	oTimeout time.Duration
	oOutput  string
}

func parseCommand() *command {
	a, err := docopt.Parse(usage, nil, true, "", false)
	exitIfSet(err)

	return &command{
		// commands
		cScan:     getBool(a["scan"]),
		cSimulate: getBool(a["simulate"]),

		// arguments
		aUUID: getString(a["<uuid>"]),

		// options
		oMajor:   getUint16(a["--major"]),
		oMinor:   getUint16(a["--minor"]),
		oTimeout: getDuration(a["--timeout"]),
		oOutput:  getString(a["--output"]),
	}
}

func getBool(field interface{}) bool {
	val, _ := field.(bool)
	return val
}

func getString(field interface{}) string {
	str, _ := field.(string)
	return str
}

func getDuration(field interface{}) time.Duration {
	str, _ := field.(string)
	if str == "" {
		return 0
	}

	d, err := time.ParseDuration(str)
	exitIfSet(err)

	return d
}

func getUint16(field interface{}) *uint16 {
	str, _ := field.(string)
	if str == "" {
		return nil
	}

	val, err := strconv.ParseUint(str, 10, 16)
	exitIfSet(err)

	num := uint16(val)

	return &num
}
