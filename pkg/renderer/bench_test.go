package renderer

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/vango-dev/reactor/pkg/memdom"
)

func benchKeys(n int) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = fmt.Sprintf("k%d", i)
	}
	return keys
}

func benchmarkReorder(b *testing.B, n int, reorder func([]string) []string) {
	doc := memdom.NewDocument(memdom.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	r := New(doc)
	a := benchKeys(n)
	c := reorder(append([]string(nil), a...))
	r.Render(list(a...), doc.Body)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if i%2 == 0 {
			r.Render(list(c...), doc.Body)
		} else {
			r.Render(list(a...), doc.Body)
		}
		doc.ResetOps()
	}
}

func BenchmarkKeyedRotate1000(b *testing.B) {
	benchmarkReorder(b, 1000, func(k []string) []string {
		return append([]string{k[len(k)-1]}, k[:len(k)-1]...)
	})
}

func BenchmarkKeyedShuffle1000(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 2))
	benchmarkReorder(b, 1000, func(k []string) []string {
		rng.Shuffle(len(k), func(i, j int) { k[i], k[j] = k[j], k[i] })
		return k
	})
}

func BenchmarkSequence1000(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 4))
	arr := rng.Perm(1000)
	for i := range arr {
		arr[i]++
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = Sequence(arr)
	}
}
