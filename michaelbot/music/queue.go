package music

import (
	"math/rand"

	"github.com/disgoorg/disgolink/v3/lavalink"
)

// Queue is the ordered list of tracks waiting behind the current one.
// All access goes through the owning session's lock.
type Queue struct {
	tracks []lavalink.Track
}

func (q *Queue) Len() int { return len(q.tracks) }

func (q *Queue) Tracks() []lavalink.Track {
	out := make([]lavalink.Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

func (q *Queue) Add(tracks ...lavalink.Track) {
	q.tracks = append(q.tracks, tracks...)
}

// Next pops the front of the queue.
func (q *Queue) Next() (lavalink.Track, bool) {
	if len(q.tracks) == 0 {
		return lavalink.Track{}, false
	}
	track := q.tracks[0]
	q.tracks = q.tracks[1:]
	return track, true
}

func (q *Queue) Clear() { q.tracks = nil }

func (q *Queue) Shuffle() {
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// Move relocates the track at from to position to, shifting the rest.
func (q *Queue) Move(from, to int) bool {
	if from < 0 || from >= len(q.tracks) || to < 0 || to >= len(q.tracks) {
		return false
	}
	track := q.tracks[from]
	q.tracks = append(q.tracks[:from], q.tracks[from+1:]...)
	q.tracks = append(q.tracks[:to], append([]lavalink.Track{track}, q.tracks[to:]...)...)
	return true
}

// Remove deletes the track at index i.
func (q *Queue) Remove(i int) (lavalink.Track, bool) {
	if i < 0 || i >= len(q.tracks) {
		return lavalink.Track{}, false
	}
	track := q.tracks[i]
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	return track, true
}
