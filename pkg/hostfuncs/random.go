package hostfuncs

import (
	"math/rand"
	"time"

	"github.com/antibyte/tinyscript/pkg/tinyscript"
)

// RANDOMIZE([seed]) reseeds the random number generator. Without a seed
// the current time is used.
func fnRandomize(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	var seed int64
	if len(argv) > 0 {
		seed = int64(ip.ArgInt(argv, 0))
	} else {
		seed = time.Now().UnixNano()
	}
	h.rng = rand.New(rand.NewSource(seed))
	return tinyscript.IntVal(0)
}

// RANDOM() returns a random non-negative number. RANDOM(N) returns one in
// [1, N] and RANDOM(N, M) one in [N, M].
func fnRandom(ip *tinyscript.Interp, argv []tinyscript.Value) tinyscript.Value {
	h := hostOf(ip)
	r := h.rng.Intn(1 << 31)
	switch len(argv) {
	case 1:
		n := ip.ArgInt(argv, 0)
		if n <= 0 {
			ip.Throw("invalid range in RANDOM()")
		}
		r = r%n + 1
	case 2:
		lo := ip.ArgInt(argv, 0)
		hi := ip.ArgInt(argv, 1)
		if hi < lo {
			ip.Throw("invalid range in RANDOM()")
		}
		r = r%(hi-lo+1) + lo
	}
	return tinyscript.IntVal(r)
}
