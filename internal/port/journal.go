package port

import "time"

// Journal is one append-only log stream owned by exactly one job.
type Journal interface {
	Name() string

	// Append writes one line "<timestamp> <message>" using the stream's
	// timestamp layout.
	Append(ts time.Time, message string) error

	// Rotate rewrites the stream keeping only lines whose timestamp prefix
	// parses and is strictly after cutoff. Lines with an unparseable prefix
	// are kept. A missing file is a no-op.
	Rotate(cutoff time.Time) (kept, dropped int, err error)
}
