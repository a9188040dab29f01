package cache

import "github.com/lustrousgorilla/cachex/core/worker"

// EvictTick asks the cache worker to purge expired entries. Deliver it
// periodically, for example via Worker.SendEvery.
type EvictTick struct{}

// Behavior assembles the cache worker behavior. Reads are calls; writes are
// exposed both as calls (for callers that need a completion barrier) and as
// fire-and-forget casts.
func Behavior() (*worker.Behavior[*State], error) {
	return worker.NewBehavior(
		worker.Delegate[*State](worker.Delegation{
			Name: "get", Op: Get,
			Modes: worker.DeliverCall, WithState: true,
		}),
		worker.Delegate[*State](worker.Delegation{
			Name: "put", Op: Put,
			Modes: worker.DeliverCall | worker.DeliverCast, WithState: true,
		}),
		worker.Delegate[*State](worker.Delegation{
			Name: "put", Op: PutTTL,
			Modes: worker.DeliverCall | worker.DeliverCast, WithState: true,
		}),
		worker.Delegate[*State](worker.Delegation{
			Name: "delete", Op: Delete,
			Modes: worker.DeliverCall | worker.DeliverCast, WithState: true,
		}),
		worker.Delegate[*State](worker.Delegation{
			Name: "len", Op: Len,
			Modes: worker.DeliverCall, WithState: true,
		}),
		worker.Delegate[*State](worker.Delegation{
			Name: "purge_expired", Op: PurgeExpired,
			Modes: worker.DeliverCall, WithState: true,
		}),
		worker.OnInfo(func(_ EvictTick, s *State) (worker.Outcome[*State], error) {
			out, err := PurgeExpired(s)
			if err != nil {
				return out, err
			}
			return worker.NoReply(out.State()), nil
		}),
	)
}
