package testing

import (
	"fmt"
	"testing"

	"github.com/ValentinKolb/localdata/lib/db"
)

// RunTypedStoreBenchmarks runs all benchmarks for a typed store
func RunTypedStoreBenchmarks[T db.Value](b *testing.B, name string, factory StoreFactory[T], samples [3]T) {

	b.Run(name+"/Set", func(b *testing.B) {
		store := factory()
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			store.Set(fmt.Sprintf("key-%d", i%1000), samples[i%3])
		}
	})

	b.Run(name+"/Get", func(b *testing.B) {
		store := factory()
		for i := 0; i < 1000; i++ {
			store.Set(fmt.Sprintf("key-%d", i), samples[i%3])
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			store.Get(fmt.Sprintf("key-%d", i%1000), samples[0])
		}
	})

	b.Run(name+"/KeysOf", func(b *testing.B) {
		store := factory()
		for i := 0; i < 1000; i++ {
			store.Set(fmt.Sprintf("key-%d", i), samples[i%3])
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			store.KeysOf(samples[i%3])
		}
	})

	b.Run(name+"/FlattenRebuild", func(b *testing.B) {
		store := factory()
		store2 := factory()
		for i := 0; i < 1000; i++ {
			store.Set(fmt.Sprintf("key-%d", i), samples[i%3])
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			keys, values := store.Flatten()
			if err := store2.Rebuild(keys, values); err != nil {
				b.Fatal(err)
			}
		}
	})
}
