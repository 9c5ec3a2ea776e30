package state

// Source supplies the freshest snapshot the transport has seen. Latest may
// return nil before the first snapshot arrives; callers treat that as "no
// decision this tick".
type Source interface {
	Latest() *Snapshot
	Close() error
}
