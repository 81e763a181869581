// xval exports the cross validation scenario battery and, given a second
// scenario file computed by an independent implementation, diffs the two
// against the declared tolerances. Any scenario outside tolerance fails the
// run, this gate is not optional tooling.
package main

import (
	"flag"
	"log"
	"os"

	kitlog "github.com/go-kit/kit/log"
	orbital "github.com/solarline/orbital"
)

var (
	exportOnly bool
	altPath    string
	tolerance  float64
)

func init() {
	flag.BoolVar(&exportOnly, "export", false, "only export the reference scenarios and exit")
	flag.StringVar(&altPath, "against", "", "scenario JSON computed by the independent implementation")
	flag.Float64Var(&tolerance, "rtol", 0, "default relative tolerance (0 uses the configured value)")
}

func main() {
	flag.Parse()
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "cmd", "xval")

	path, err := orbital.ExportScenarios()
	if err != nil {
		log.Fatalf("[error] export: %s", err)
	}
	klog.Log("level", "info", "subsys", "xval", "exported", path)
	if exportOnly {
		return
	}

	if altPath == "" {
		log.Fatal("[error] -against is required unless -export is set")
	}
	f, err := os.Open(altPath)
	if err != nil {
		log.Fatalf("[error] open: %s", err)
	}
	defer f.Close()
	alt, err := orbital.ReadScenarios(f)
	if err != nil {
		log.Fatalf("[error] read: %s", err)
	}

	if tolerance == 0 {
		tolerance = orbital.ConfiguredTolerance()
	}
	if err := orbital.Validate(orbital.ReferenceScenarios(), alt, tolerance, klog); err != nil {
		log.Fatalf("[error] %s", err)
	}
	klog.Log("level", "notice", "subsys", "xval", "status", "all scenarios within tolerance")
}
