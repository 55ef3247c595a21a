package control

import (
	"github.com/markusressel/steer2go/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// Registry holds all channels of the daemon, keyed by controller id
type Registry struct {
	channels cmap.ConcurrentMap[string, *Channel]
}

func NewRegistry() *Registry {
	return &Registry{
		channels: cmap.New[*Channel](),
	}
}

func (r *Registry) Register(channel *Channel) {
	r.channels.Set(channel.GetId(), channel)
}

func (r *Registry) Get(id string) (*Channel, bool) {
	return r.channels.Get(id)
}

// Ids returns the ids of all registered channels, sorted
func (r *Registry) Ids() []string {
	return util.SortedKeys(r.channels.Items())
}

// Channels returns all registered channels, sorted by id
func (r *Registry) Channels() []*Channel {
	items := r.channels.Items()
	result := make([]*Channel, 0, len(items))
	for _, id := range util.SortedKeys(items) {
		result = append(result, items[id])
	}
	return result
}

// Snapshots returns a snapshot of every registered channel, keyed by id
func (r *Registry) Snapshots() map[string]Snapshot {
	result := map[string]Snapshot{}
	for id, channel := range r.channels.Items() {
		result[id] = channel.Snapshot()
	}
	return result
}
