package giveaway

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"sync"

	"go.uber.org/zap"

	"giveaway-system/store"
)

// Service implements entry intake, bonus claims, lookup and the winner draw
// on top of a Store. It holds no request state; every operation is a single
// unit of work.
type Service struct {
	store store.Store
	log   *zap.Logger

	// drawMu guards drawSrc, which is not safe for concurrent use.
	drawMu  sync.Mutex
	drawSrc *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithDrawSource replaces the draw's random source. Tests use this to make
// draws deterministic; production keeps the default crypto-seeded source.
func WithDrawSource(src rand.Source) Option {
	return func(s *Service) {
		s.drawSrc = rand.New(src)
	}
}

func New(st store.Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		store:   st,
		log:     log,
		drawSrc: rand.New(rand.NewSource(cryptoSeed())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cryptoSeed reads the draw seed from the OS CSPRNG. Sweepstakes draws must
// be unpredictable, so a time-based seed is not acceptable here.
func cryptoSeed() int64 {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		panic("giveaway: cannot read crypto/rand seed: " + err.Error())
	}
	return int64(binary.BigEndian.Uint64(b[:]))
}
