package chunking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

// conversation builds a mixed transcript with varied turn lengths, pauses
// and transition markers.
func conversation() []transcript.Section {
	speakers := []string{"Alice", "Bob", "Carol"}
	var out []transcript.Section
	at := time.Duration(0)
	for i := 0; i < 60; i++ {
		text := pad(fmt.Sprintf("Point %d about the roadmap.", i), 30+(i*37)%220)
		if i%11 == 0 {
			text = "Moving on, " + text
		}
		dur := time.Duration(5+i%7) * time.Second
		out = append(out, sec(speakers[(i/2)%3], at, at+dur, text))
		at += dur
		if i%13 == 0 {
			at += 45 * time.Second
		}
	}
	return out
}

func TestPartitionPreservesSections(t *testing.T) {
	sections := conversation()
	for _, strategy := range Strategies {
		for _, max := range []int{80, 150, 400, 5000} {
			t.Run(fmt.Sprintf("%s/%d", strategy, max), func(t *testing.T) {
				groups, err := Partition(sections, strategy, max, DefaultConfig(), nil)
				if err != nil {
					t.Fatalf("Partition() error = %v", err)
				}
				for i, g := range groups {
					if len(g) == 0 {
						t.Errorf("group %d is empty", i)
					}
				}
				if got := flatten(groups); !reflect.DeepEqual(got, sections) {
					t.Errorf("flattened groups differ from input: got %d sections, want %d", len(got), len(sections))
				}
			})
		}
	}
}

func TestPartitionRespectsCeiling(t *testing.T) {
	sections := conversation()
	for _, strategy := range []Strategy{StrategySpeaker, StrategySemantic, StrategyHybrid} {
		for _, max := range []int{80, 150, 400} {
			t.Run(fmt.Sprintf("%s/%d", strategy, max), func(t *testing.T) {
				groups, err := Partition(sections, strategy, max, DefaultConfig(), nil)
				if err != nil {
					t.Fatalf("Partition() error = %v", err)
				}
				for i, g := range groups {
					if got := groupTokens(g); got > max {
						t.Errorf("group %d has %d tokens, ceiling %d", i, got, max)
					}
				}
			})
		}
	}
}

func TestPartitionErrors(t *testing.T) {
	if _, err := Partition(nil, StrategyHybrid, 100, DefaultConfig(), nil); !errors.Is(err, ErrNoSections) {
		t.Errorf("Partition(nil) error = %v, want ErrNoSections", err)
	}
	sections := evenSections(2, same("A"))
	if _, err := Partition(sections, StrategyHybrid, 0, DefaultConfig(), nil); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("Partition(max=0) error = %v, want ErrInvalidLimit", err)
	}
	if _, err := Partition(sections, "other", 100, DefaultConfig(), nil); !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("Partition(other) error = %v, want ErrUnknownStrategy", err)
	}
}

func TestSpeakerStrategyThreeTurns(t *testing.T) {
	// 200 chars is 50 tokens; any two rendered lines exceed 60
	body := strings.Repeat("abcd", 50)
	sections := []transcript.Section{
		sec("Alice", 0, 10*time.Second, body),
		sec("Bob", 10*time.Second, 20*time.Second, body),
		sec("Alice", 20*time.Second, 30*time.Second, body),
	}

	groups, err := Partition(sections, StrategySpeaker, 60, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if len(groups) != 3 {
		t.Fatalf("len(groups) = %d, want 3", len(groups))
	}
	for i, g := range groups {
		if len(g) != 1 || g[0].StartTime != sections[i].StartTime {
			t.Errorf("group %d = %v", i, g)
		}
	}
}

func TestSpeakerStrategyKeepsTurnTogether(t *testing.T) {
	// lines of 114 chars: 1 line 29 tokens, 3 lines 86, 4 lines 115
	body := func(s string) string { return pad(s, 100) }
	sections := []transcript.Section{
		sec("A", 0, 5*time.Second, body("opening")),
		sec("B", 5*time.Second, 10*time.Second, body("first")),
		sec("B", 10*time.Second, 15*time.Second, body("second")),
		sec("B", 15*time.Second, 20*time.Second, body("third")),
	}

	groups, err := Partition(sections, StrategySpeaker, 100, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	want := [][]string{{"A"}, {"B", "B", "B"}}
	if len(groups) != len(want) {
		t.Fatalf("len(groups) = %d, want %d", len(groups), len(want))
	}
	for i, g := range groups {
		var got []string
		for _, s := range g {
			got = append(got, s.Speaker)
		}
		if !reflect.DeepEqual(got, want[i]) {
			t.Errorf("group %d speakers = %v, want %v", i, got, want[i])
		}
	}
}

func TestTimeStrategy(t *testing.T) {
	body := pad("steady", 100)
	sections := []transcript.Section{
		sec("A", 0, 10*time.Second, body),
		sec("A", 10*time.Second, 20*time.Second, body),
		sec("B", 20*time.Second, 30*time.Second, body),
		sec("B", 30*time.Second, 40*time.Second, body),
	}

	// 115 tokens over a 60 ceiling: two 20-second windows
	groups, err := Partition(sections, StrategyTime, 60, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if len(groups) != 2 || len(groups[0]) != 2 || len(groups[1]) != 2 {
		t.Fatalf("groups = %v", groups)
	}
	if groups[1][0].StartTime != "00:00:20" {
		t.Errorf("second window starts at %s, want 00:00:20", groups[1][0].StartTime)
	}

	// everything fits: one group
	groups, _ = Partition(sections, StrategyTime, 1000, DefaultConfig(), nil)
	if len(groups) != 1 {
		t.Errorf("len(groups) = %d, want 1", len(groups))
	}
}

func TestTimeStrategyWithoutTiming(t *testing.T) {
	sections := evenSections(8, same("A"))
	for i := range sections {
		sections[i].StartTime = "00:00:00"
		sections[i].EndTime = "00:00:00"
	}

	groups, err := Partition(sections, StrategyTime, 60, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if len(groups) < 2 {
		t.Fatalf("len(groups) = %d, want a token-bounded fallback", len(groups))
	}
	for i, g := range groups {
		if groupTokens(g) > 60 {
			t.Errorf("group %d exceeds the ceiling", i)
		}
	}
}

func TestSemanticStrategyClosesAtBreak(t *testing.T) {
	// lines of 54 chars: 5 lines 69 tokens, 6 lines 83, 7 lines 96, 8 lines 110
	build := func(marker string) []transcript.Section {
		sections := evenSections(8, same("A"))
		sections[6].Text = pad(marker+" the budget", 40)
		return sections
	}

	groups, err := Partition(build("Moving on to"), StrategySemantic, 100, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if len(groups) != 2 || len(groups[0]) != 6 {
		t.Errorf("with marker: group sizes = %v, want [6 2]", sizes(groups))
	}

	groups, _ = Partition(build("Looking at"), StrategySemantic, 100, DefaultConfig(), nil)
	if len(groups) != 2 || len(groups[0]) != 7 {
		t.Errorf("without marker: group sizes = %v, want [7 1]", sizes(groups))
	}
}

func TestSemanticStrategyIgnoresEarlyBreak(t *testing.T) {
	sections := evenSections(4, same("A"))
	sections[1].Text = pad("Next we review hiring", 40)

	groups, _ := Partition(sections, StrategySemantic, 100, DefaultConfig(), nil)
	if len(groups) != 1 {
		t.Errorf("group sizes = %v, want a single group", sizes(groups))
	}
}

func TestSemanticStrategyCustomDetector(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Breaks = BreakFunc(func(s transcript.Section, _, _ *transcript.Section) bool {
		return strings.HasPrefix(s.Text, "line 6")
	})

	groups, _ := Partition(evenSections(8, same("A")), StrategySemantic, 100, cfg, nil)
	if len(groups) != 2 || len(groups[0]) != 6 {
		t.Errorf("group sizes = %v, want [6 2]", sizes(groups))
	}
}

func TestHybridStrategy(t *testing.T) {
	speakerAt := func(change int) func(int) string {
		return func(i int) string {
			if i >= change {
				return "B"
			}
			return "A"
		}
	}

	// the sixth line would reach 83 tokens, past 80% of 100, at a speaker change
	groups, err := Partition(evenSections(8, speakerAt(5)), StrategyHybrid, 100, DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("Partition() error = %v", err)
	}
	if got := sizes(groups); !reflect.DeepEqual(got, []int{5, 3}) {
		t.Errorf("group sizes = %v, want [5 3]", got)
	}

	// no natural break near the limit: fill up to the ceiling
	groups, _ = Partition(evenSections(8, same("A")), StrategyHybrid, 100, DefaultConfig(), nil)
	if got := sizes(groups); !reflect.DeepEqual(got, []int{7, 1}) {
		t.Errorf("group sizes = %v, want [7 1]", got)
	}

	// a speaker change far from the limit does not close the group
	groups, _ = Partition(evenSections(8, speakerAt(2)), StrategyHybrid, 100, DefaultConfig(), nil)
	if got := sizes(groups); !reflect.DeepEqual(got, []int{7, 1}) {
		t.Errorf("group sizes = %v, want [7 1]", got)
	}
}

func TestOversizedSectionIsSplit(t *testing.T) {
	var sentences []string
	for i := 0; i < 12; i++ {
		sentences = append(sentences, fmt.Sprintf("Sentence number %d explains one more detail of the plan.", i))
	}
	big := sec("Alice", time.Minute, 2*time.Minute, strings.Join(sentences, " "))
	sections := []transcript.Section{
		sec("Bob", 0, time.Minute, "Short intro."),
		big,
		sec("Bob", 2*time.Minute, 3*time.Minute, "Thanks."),
	}

	for _, strategy := range []Strategy{StrategySpeaker, StrategySemantic, StrategyHybrid} {
		t.Run(string(strategy), func(t *testing.T) {
			groups, err := Partition(sections, strategy, 60, DefaultConfig(), nil)
			if err != nil {
				t.Fatalf("Partition() error = %v", err)
			}

			var frags []string
			for i, g := range groups {
				if groupTokens(g) > 60 {
					t.Errorf("group %d exceeds the ceiling", i)
				}
				for _, s := range g {
					if !s.IsSplit {
						continue
					}
					if len(g) != 1 {
						t.Errorf("split fragment shares group %d", i)
					}
					if s.Speaker != big.Speaker || s.StartTime != big.StartTime || s.EndTime != big.EndTime {
						t.Errorf("fragment lost parent attributes: %+v", s)
					}
					frags = append(frags, s.Text)
				}
			}
			if len(frags) < 2 {
				t.Fatalf("got %d fragments, want several", len(frags))
			}
			if got := strings.Join(frags, " "); got != big.Text {
				t.Errorf("fragments do not rebuild the section text")
			}
			if groups[0][0].Text != "Short intro." || groups[len(groups)-1][0].Text != "Thanks." {
				t.Errorf("neighbouring sections moved")
			}
		})
	}
}

func TestSplitOversizedLongSentence(t *testing.T) {
	s := sec("A", 0, time.Minute, strings.TrimSpace(strings.Repeat("endless words without a stop ", 40)))
	frags := SplitOversized(s, 50, nil)
	if len(frags) < 2 {
		t.Fatalf("len(frags) = %d, want several", len(frags))
	}
	for i, f := range frags {
		if groupTokens([]transcript.Section{f}) > 50 {
			t.Errorf("fragment %d exceeds the ceiling", i)
		}
	}
	if got := strings.Join(texts(frags), " "); got != s.Text {
		t.Errorf("fragments do not rebuild the section text")
	}
}

func TestSplitSentencesKeepsAllText(t *testing.T) {
	in := "...well. Is it done?! Yes「好」。接下來 we go"
	if got := strings.Join(splitSentences(in), ""); got != in {
		t.Errorf("splitSentences() lost text: %q", got)
	}
}

func sizes(groups [][]transcript.Section) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g)
	}
	return out
}
