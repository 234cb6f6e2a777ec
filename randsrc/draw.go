package randsrc

// Uint64n draws a value in [0, n). n must be nonzero.
func (s *Source) Uint64n(n uint64) uint64 {
	return s.Uint64() % n
}

// IntN draws a value in [0, n). n must be positive.
func (s *Source) IntN(n int) int {
	return int(s.Uint64n(uint64(n)))
}

// Bool draws a fair boolean.
func (s *Source) Bool() bool {
	return s.Uint64()&1 == 1
}

// Byte draws a single byte.
func (s *Source) Byte() byte {
	return byte(s.Uint64())
}

// Bytes draws n bytes.
func (s *Source) Bytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = s.Byte()
	}
	return out
}

// NullDecision draws whether a nullable generator should produce null this
// time. Null odds follow the null-in-every weighting; with sized-null they
// also scale with the remaining generator size, so null grows likelier as
// the size runs out and is forced once it is spent. Without tuning the
// decision is never null.
func (s *Source) NullDecision(remaining uint64) bool {
	every := s.tuning.NullInEvery
	if every == 0 {
		return false
	}
	if s.tuning.SizedNull {
		if remaining == 0 {
			return true
		}
		return s.Uint64n(every*remaining) == 0
	}
	return s.Uint64n(every) == 0
}
