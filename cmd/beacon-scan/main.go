package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/SagarSDagdu/SDBeaconScanner/pkg/beacon"
	"github.com/SagarSDagdu/SDBeaconScanner/pkg/ranging"
	"github.com/SagarSDagdu/SDBeaconScanner/pkg/utils"
)

func main() {
	// parse command
	cmd := parseCommand()

	// run desired command
	if cmd.cScan {
		scan(cmd)
	} else if cmd.cSimulate {
		simulate(cmd)
	}
}

func scan(cmd *command) {
	// run scan against the adapter
	runScan(cmd, ranging.NewBluetooth())
}

func simulate(cmd *command) {
	// parse region
	region, err := beacon.ParseRegion(cmd.aUUID, cmd.oMajor, cmd.oMinor)
	exitIfSet(err)

	// run scan against a scripted ranger
	runScan(cmd, ranging.NewSimulated(ranging.DemoScript(region)...))
}

func runScan(cmd *command, ranger beacon.Ranger) {
	// create scanner
	scanner := beacon.NewScanner(ranger, os.Stdout)

	// log info
	utils.Logf(os.Stdout, "Scanning for %s...", cmd.aUUID)

	// begin scan
	done := make(chan struct{})
	var reports []beacon.Report
	var scanErr error
	scanner.BeginScan(cmd.aUUID, cmd.oMajor, cmd.oMinor, cmd.oTimeout, func(r []beacon.Report, err error) {
		reports = r
		scanErr = err
		close(done)
	})

	// await result
	<-done
	exitIfSet(scanErr)

	// prepare table
	tbl := newTable("UUID", "MAJOR", "MINOR", "PROXIMITY", "ACCURACY", "RSSI", "LAST SEEN")
	for _, report := range reports {
		tbl.add(
			report.UUID,
			strconv.Itoa(int(report.Major)),
			strconv.Itoa(int(report.Minor)),
			report.Proximity.String(),
			lo.Ternary(report.Accuracy < 0, "?", fmt.Sprintf("%.2fm", report.Accuracy)),
			strconv.Itoa(report.RSSI),
			time.UnixMilli(report.LastSeen).Format(time.RFC3339),
		)
	}

	// print table
	tbl.print()

	// write output if requested
	if cmd.oOutput != "" {
		data, err := yaml.Marshal(reports)
		exitIfSet(err)
		exitIfSet(os.WriteFile(cmd.oOutput, data, 0644))
	}

	// log info
	utils.Logf(os.Stdout, "Found %d beacons.", len(reports))
}
