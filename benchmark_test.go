package uritemplate_test

import (
	"net/http"
	_ "net/http/pprof"
	"os"
	"testing"

	"github.com/frobware/uritemplate"
)

func init() {
	// ListenAndServe used by the Makefile target
	// benchmark-profile only.
	go func() {
		if port := os.Getenv("BENCHMARK_PROFILE_PORT"); port != "" {
			if err := http.ListenAndServe("localhost:"+port, nil); err != nil {
				panic(err)
			}
		}
	}()
}

// Run with:
//
// $ go test -bench=. -benchmem [-count=1] [-benchtime=1s]
//
// BenchmarkCompile measures template compilation, which is done once
// per template. BenchmarkParse and BenchmarkFormat measure the per
// name cost and are the ones to watch: both allocate for the extras
// map and the scratch copies made by FieldHandlers, so allocs/op
// grows with the number of handler fields in the template.
// BenchmarkFormatRange formats a year of daily names.

const benchmarkTemplate = "http://emfisis.physics.uiowa.edu/Flight/rbsp-$(x;name=sc;enum=a|b)/L4/$Y/$m/$d/rbsp-$(x;name=sc;enum=a|b)_density_emfisis-L4_$Y$m$d_v$(v;sep).cdf"

const benchmarkName = "http://emfisis.physics.uiowa.edu/Flight/rbsp-a/L4/2017/07/01/rbsp-a_density_emfisis-L4_20170701_v1.5.15.cdf"

func BenchmarkCompile(b *testing.B) {
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := uritemplate.Compile(benchmarkTemplate); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse(b *testing.B) {
	tmpl := uritemplate.MustCompile(benchmarkTemplate)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := tmpl.Parse(benchmarkName, map[string]string{}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormat(b *testing.B) {
	tmpl := uritemplate.MustCompile(benchmarkTemplate)
	extras := map[string]string{"sc": "a", "v": "1.5.15"}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := tmpl.Format("2017-07-01", "2017-07-02", extras); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFormatRange(b *testing.B) {
	tmpl := uritemplate.MustCompile("$Y/$m/data_$Y$m$d.dat")
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		names, err := tmpl.FormatRange("2020-01-01", "2021-01-01", nil)
		if err != nil {
			b.Fatal(err)
		}
		if len(names) != 366 {
			b.Fatalf("got %d names", len(names))
		}
	}
}
