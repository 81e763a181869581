// windows searches the next Hohmann transfer windows between two planets
// and prints the departure epochs with the transfer figures.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	orbital "github.com/solarline/orbital"
)

var (
	depName string
	arrName string
	fromStr string
	count   int
)

func init() {
	flag.StringVar(&depName, "from", "Earth", "departure planet")
	flag.StringVar(&arrName, "to", "Mars", "arrival planet")
	flag.StringVar(&fromStr, "after", "", "search start date (YYYY-MM-DD, default now)")
	flag.IntVar(&count, "count", 3, "number of windows to find")
}

func main() {
	flag.Parse()
	dep, err := orbital.BodyFromString(depName)
	if err != nil {
		log.Fatalf("[error] %s", err)
	}
	arr, err := orbital.BodyFromString(arrName)
	if err != nil {
		log.Fatalf("[error] %s", err)
	}

	start := time.Now().UTC()
	if fromStr != "" {
		start, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			log.Fatalf("[error] invalid -after date: %s", err)
		}
	}
	afterJD := orbital.JulianDate(start)

	Δv1, Δv2 := orbital.HohmannDv(orbital.Sun.GM(), dep.OrbitRadius(), arr.OrbitRadius())
	tof := orbital.HohmannTransferTime(dep, arr)
	fmt.Printf("%s -> %s: Δv=%.3f km/s (%.3f + %.3f), transfer %.1f days, required phase %.2f°\n",
		dep, arr, float64(Δv1+Δv2), float64(Δv1), float64(Δv2),
		float64(tof)/orbital.SecondsPerDay, orbital.HohmannPhaseAngle(dep, arr).Degrees())

	synodic := float64(orbital.SynodicPeriod(dep, arr)) / orbital.SecondsPerDay
	for found := 0; found < count; {
		jd, ok := orbital.NextHohmannWindow(dep, arr, afterJD)
		if !ok {
			fmt.Printf("no window within %.1f days after %s\n", synodic*1.2, orbital.DateStringFromJD(afterJD))
			return
		}
		arrival := orbital.ArrivalPosition(dep, arr, jd)
		fmt.Printf("window %d: depart %s (JD %.2f), arrive %s at %.3f AU\n",
			found+1, orbital.DateStringFromJD(jd), jd,
			orbital.DateStringFromJD(arrival.JD), float64(arrival.R)/float64(orbital.AU))
		found++
		// Skip past this window before searching for the next one.
		afterJD = jd + synodic/2
	}
}
