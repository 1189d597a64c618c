package chunking

import (
	"math"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/tokens"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// Partition groups sections with the named strategy. Groups are contiguous,
// non-empty and in original order. Oversized sections are replaced by their
// split fragments in every strategy except StrategyTime.
func Partition(sections []transcript.Section, strategy Strategy, maxTokens int, cfg Config, r transcript.Renderer) ([][]transcript.Section, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	if maxTokens <= 0 {
		return nil, ErrInvalidLimit
	}
	if r == nil {
		r = transcript.LineRenderer{}
	}

	p := &partitioner{cfg: cfg.withDefaults(), r: r, max: maxTokens}
	p.natural = NaturalBreakDetector{Semantic: p.cfg.Breaks, ShortPause: p.cfg.ShortPause}

	switch strategy {
	case StrategySpeaker:
		return p.bySpeaker(sections), nil
	case StrategyTime:
		return p.byTime(sections), nil
	case StrategySemantic:
		return p.bySemantic(sections), nil
	case StrategyHybrid, "":
		return p.byHybrid(sections), nil
	default:
		return nil, ErrUnknownStrategy
	}
}

type partitioner struct {
	cfg     Config
	r       transcript.Renderer
	natural BreakDetector
	max     int

	groups  [][]transcript.Section
	cur     []transcript.Section
	counter tokens.Counter
}

func (p *partitioner) line(s transcript.Section) string {
	return p.r.RenderSection(s)
}

func (p *partitioner) oversized(s transcript.Section) bool {
	return tokens.Estimate(p.line(s)) > p.max
}

// with is the running estimate if s were added to the open group.
func (p *partitioner) with(s transcript.Section) int {
	return p.counter.Add(p.line(s)).Tokens()
}

func (p *partitioner) add(s transcript.Section) {
	p.cur = append(p.cur, s)
	p.counter = p.counter.Add(p.line(s))
}

func (p *partitioner) flush() {
	if len(p.cur) == 0 {
		return
	}
	p.groups = append(p.groups, p.cur)
	p.cur = nil
	p.counter = tokens.Counter{}
}

// addOversized closes the open group and emits each fragment of s as its own group.
func (p *partitioner) addOversized(s transcript.Section) {
	p.flush()
	for _, frag := range SplitOversized(s, p.max, p.r) {
		p.groups = append(p.groups, []transcript.Section{frag})
	}
}

func (p *partitioner) result() [][]transcript.Section {
	p.flush()
	return p.groups
}

func neighbours(sections []transcript.Section, i int) (prev, next *transcript.Section) {
	if i > 0 {
		prev = &sections[i-1]
	}
	if i+1 < len(sections) {
		next = &sections[i+1]
	}
	return prev, next
}

// bySpeaker fills groups up to the ceiling. When the overflowing section
// continues the current speaker's turn, the group is closed at the start of
// that turn instead, if the turn still fits in the next group.
func (p *partitioner) bySpeaker(sections []transcript.Section) [][]transcript.Section {
	for _, s := range sections {
		if p.oversized(s) {
			p.addOversized(s)
			continue
		}
		if len(p.cur) > 0 && p.with(s) > p.max && !p.closeAtTurn(s) {
			p.flush()
		}
		p.add(s)
	}
	return p.result()
}

func (p *partitioner) closeAtTurn(s transcript.Section) bool {
	if p.cur[len(p.cur)-1].Speaker != s.Speaker {
		return false
	}

	turn := -1
	for i := len(p.cur) - 1; i > 0; i-- {
		if p.cur[i].Speaker != p.cur[i-1].Speaker {
			turn = i
			break
		}
	}
	if turn <= 0 {
		return false
	}

	var tail tokens.Counter
	for _, t := range p.cur[turn:] {
		tail = tail.Add(p.line(t))
	}
	if tail.Add(p.line(s)).Tokens() > p.max {
		return false
	}

	p.groups = append(p.groups, p.cur[:turn:turn])
	p.cur = append([]transcript.Section(nil), p.cur[turn:]...)
	p.counter = tail
	return true
}

// byTime cuts at regular time intervals sized so that the expected number
// of chunks matches the token budget. Token limits are not enforced.
func (p *partitioner) byTime(sections []transcript.Section) [][]transcript.Section {
	var total tokens.Counter
	for _, s := range sections {
		total = total.Add(p.line(s))
	}

	n := int(math.Ceil(float64(total.Tokens()) / float64(p.max)))
	if n <= 1 {
		return [][]transcript.Section{sections}
	}

	start := transcript.Offset(sections[0].StartTime)
	span := transcript.Offset(sections[len(sections)-1].EndTime) - start
	if span <= 0 {
		// no timing information to cut on
		return p.byHybrid(sections)
	}

	interval := span / time.Duration(n)
	boundary := start + interval
	for _, s := range sections {
		at := transcript.Offset(s.StartTime)
		if len(p.cur) > 0 && at >= boundary {
			p.flush()
			for at >= boundary {
				boundary += interval
			}
		}
		p.add(s)
	}
	return p.result()
}

// bySemantic closes a group early at a semantic break once it passes the
// early-close ratio, and always before it would exceed the ceiling.
func (p *partitioner) bySemantic(sections []transcript.Section) [][]transcript.Section {
	early := p.cfg.EarlyCloseRatio * float64(p.max)
	for i, s := range sections {
		if p.oversized(s) {
			p.addOversized(s)
			continue
		}
		if len(p.cur) > 0 {
			prev, next := neighbours(sections, i)
			isBreak := p.cfg.Breaks.IsBreakPoint(s, prev, next)
			if (isBreak && float64(p.counter.Tokens()) > early) || p.with(s) > p.max {
				p.flush()
			}
		}
		p.add(s)
	}
	return p.result()
}

// byHybrid closes a group when the next section would exceed the ceiling, or
// when it would pass the near-limit ratio and starts at a natural break.
func (p *partitioner) byHybrid(sections []transcript.Section) [][]transcript.Section {
	near := p.cfg.NearLimitRatio * float64(p.max)
	for i, s := range sections {
		if p.oversized(s) {
			p.addOversized(s)
			continue
		}
		if len(p.cur) > 0 {
			running := p.with(s)
			atLimit := running > p.max
			nearLimit := float64(running) > near
			prev, next := neighbours(sections, i)
			if atLimit || (nearLimit && p.natural.IsBreakPoint(s, prev, next)) {
				p.flush()
			}
		}
		p.add(s)
	}
	return p.result()
}
