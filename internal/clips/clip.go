package clips

import (
	"fmt"
	"path/filepath"
	"time"
)

// Clip is one still image held on screen for a fixed duration.
type Clip struct {
	ID       string
	Image    string
	Start    time.Duration
	Duration time.Duration
	FPS      int
	// FadeIn is the length of the fade from black at the head of the clip.
	FadeIn time.Duration
}

// End returns the time at which the clip leaves the screen.
func (c *Clip) End() time.Duration {
	return c.Start + c.Duration
}

func (c *Clip) String() string {
	return fmt.Sprintf("%s[%s %v-%v]", c.ID, filepath.Base(c.Image), c.Start, c.End())
}

// Sequence is a single pass over the sorted images.
type Sequence struct {
	Clips []*Clip
}

// NewSequence builds one clip per image, in the given order. Every clip,
// the first included, gets the same fade-in.
func NewSequence(images []string, duration time.Duration, fps int, fadeIn time.Duration) (*Sequence, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("sequence needs at least one image")
	}
	if duration <= 0 {
		return nil, fmt.Errorf("invalid clip duration %v: must be positive", duration)
	}
	if fps <= 0 {
		return nil, fmt.Errorf("invalid frame rate %d: must be positive", fps)
	}
	if fadeIn > duration {
		fadeIn = duration
	}

	seq := &Sequence{Clips: make([]*Clip, len(images))}
	for i, img := range images {
		seq.Clips[i] = &Clip{
			ID:       fmt.Sprintf("img_%03d", i),
			Image:    img,
			Start:    time.Duration(i) * duration,
			Duration: duration,
			FPS:      fps,
			FadeIn:   fadeIn,
		}
	}
	return seq, nil
}

// PassDuration is the length of one traversal of the images.
func (s *Sequence) PassDuration() time.Duration {
	var total time.Duration
	for _, c := range s.Clips {
		total += c.Duration
	}
	return total
}

// Repeats returns how many passes are needed so the repeated sequence is
// strictly longer than end: floor(end/pass) + 1.
func (s *Sequence) Repeats(end time.Duration) int {
	pass := s.PassDuration()
	if pass <= 0 || end <= 0 {
		return 1
	}
	return int(end/pass) + 1
}

// SlotCount returns how many clips of the given duration are needed to
// cover end. A trailing partial slot counts as a full clip.
func SlotCount(end, duration time.Duration) int {
	if end <= 0 || duration <= 0 {
		return 0
	}
	return int((end + duration - 1) / duration)
}

// Timeline is the repeated, truncated clip list that covers a target length.
type Timeline struct {
	Clips   []*Clip
	Repeats int
}

// Fill repeats the sequence and keeps just enough clips to cover end.
// Clips in the timeline are copies with their own start offsets.
func (s *Sequence) Fill(end time.Duration) *Timeline {
	repeats := s.Repeats(end)
	slots := SlotCount(end, s.Clips[0].Duration)

	tl := &Timeline{Repeats: repeats, Clips: make([]*Clip, 0, slots)}
	var at time.Duration
	for r := 0; r < repeats && len(tl.Clips) < slots; r++ {
		for _, c := range s.Clips {
			if len(tl.Clips) == slots {
				break
			}
			clip := *c
			clip.ID = fmt.Sprintf("%s_r%d", c.ID, r)
			clip.Start = at
			at += clip.Duration
			tl.Clips = append(tl.Clips, &clip)
		}
	}
	return tl
}

// Duration is the summed length of the timeline's clips.
func (t *Timeline) Duration() time.Duration {
	var total time.Duration
	for _, c := range t.Clips {
		total += c.Duration
	}
	return total
}

// Pass returns the clips of the first traversal, the unit that repeats to
// make up the whole timeline. It is shorter than one full sequence when the
// timeline ends before every image has been shown.
func (t *Timeline) Pass() []*Clip {
	n := len(t.Clips)
	for i, c := range t.Clips {
		if i > 0 && c.Image == t.Clips[0].Image {
			n = i
			break
		}
	}
	return t.Clips[:n]
}

// PassDuration is the summed length of Pass.
func (t *Timeline) PassDuration() time.Duration {
	var total time.Duration
	for _, c := range t.Pass() {
		total += c.Duration
	}
	return total
}

// Passes returns how many copies of Pass cover the timeline. The last copy
// may extend past the final clip.
func (t *Timeline) Passes() int {
	n := len(t.Pass())
	if n == 0 {
		return 0
	}
	return (len(t.Clips) + n - 1) / n
}

// Images returns the image path of each clip, in playback order.
func (t *Timeline) Images() []string {
	out := make([]string, len(t.Clips))
	for i, c := range t.Clips {
		out[i] = c.Image
	}
	return out
}
