package serializer

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/localdata/lib/store"
)

// benchmarkSnapshot returns a snapshot with n keys in each section
func benchmarkSnapshot(n int) *store.Snapshot {
	r := store.NewRegistry()
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("key-%d", i)
		r.Strings.Set(key, fmt.Sprintf("value-%d", i))
		r.Ints.Set(key, i)
		r.Floats.Set(key, float64(i)/3)
	}
	return r.Flatten()
}

func BenchmarkSerializers(b *testing.B) {
	for _, n := range []int{0, 100, 10_000} {
		snap := benchmarkSnapshot(n)
		for name, factory := range testSerializers {
			serializer := factory()
			data, err := serializer.Serialize(snap)
			if err != nil {
				b.Fatalf("Failed to serialize: %v", err)
			}

			b.Run(fmt.Sprintf("%s/Serialize/%d", name, n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					if _, err := serializer.Serialize(snap); err != nil {
						b.Fatal(err)
					}
				}
				b.ReportMetric(float64(len(data)), "bytes/doc")
			})

			b.Run(fmt.Sprintf("%s/Deserialize/%d", name, n), func(b *testing.B) {
				b.ReportAllocs()
				for i := 0; i < b.N; i++ {
					var result store.Snapshot
					if err := serializer.Deserialize(data, &result); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
