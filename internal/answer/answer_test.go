package answer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcess_DropsCitationLine(t *testing.T) {
	raw := "🪔 Jai Shree Krishna.\nTithi: Amavasya\n[3] please consult drik panchang for more details"

	got := NewProcessor(nil).Process(raw)

	assert.Equal(t, "🪔 Jai Shree Krishna.\nTithi: Amavasya", got)
}

func TestProcess(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "scratch reasoning before greeting discarded",
			raw:  "Okay, let's tackle this question.\nSome scratch text\n**🪔 Jai Shree Krishna.**\n**Tithi:** Amavasya",
			want: "🪔 Jai Shree Krishna.\nTithi: Amavasya",
		},
		{
			name: "greeting prepended when missing",
			raw:  "Offer water to the Sun at sunrise.",
			want: "🪔 Jai Shree Krishna.\nOffer water to the Sun at sunrise.",
		},
		{
			name: "meta lines removed anywhere",
			raw:  "🪔 Jai Shree Krishna.\nThe instructions say to be brief.\nLight a diya in the evening.",
			want: "🪔 Jai Shree Krishna.\nLight a diya in the evening.",
		},
		{
			name: "blank lines dropped",
			raw:  "🪔 Jai Shree Krishna.\n\n   \nChant the Vishnu Sahasranama.",
			want: "🪔 Jai Shree Krishna.\nChant the Vishnu Sahasranama.",
		},
		{
			name: "non calendar lines truncated to two sentences",
			raw:  "🪔 Jai Shree Krishna.\nFasting purifies the mind. It also builds discipline. Many observe it weekly. Some only on Ekadashi.",
			want: "🪔 Jai Shree Krishna.\nFasting purifies the mind. It also builds discipline.",
		},
		{
			name: "calendar lines kept whole",
			raw:  "🪔 Jai Shree Krishna.\nRahu Kaal is from 10:30 AM to 12:00 PM. Avoid new work. Pray instead. Stay calm.",
			want: "🪔 Jai Shree Krishna.\nRahu Kaal is from 10:30 AM to 12:00 PM. Avoid new work. Pray instead. Stay calm.",
		},
	}

	p := NewProcessor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Process(tt.raw))
		})
	}
}

func TestProcess_LineCaps(t *testing.T) {
	p := NewProcessor(nil)

	var general []string
	for i := 0; i < 20; i++ {
		general = append(general, "Be kind to all beings.")
	}
	out := strings.Split(p.Process(strings.Join(general, "\n")), "\n")
	assert.Len(t, out, 8)
	assert.Equal(t, Greeting, out[0])

	calendar := append([]string{"Tithi: Dashami"}, general...)
	out = strings.Split(p.Process(strings.Join(calendar, "\n")), "\n")
	assert.Len(t, out, 15)
}

func TestProcess_CustomLimits(t *testing.T) {
	p := NewProcessor(&Limits{CalendarLines: 3, GeneralLines: 2, MaxSentences: 1})

	got := p.Process("🪔 Jai Shree Krishna.\nOne. Two.\nThree.")
	assert.Equal(t, "🪔 Jai Shree Krishna.\nOne.", got)
}

func TestIsReasoningLeak(t *testing.T) {
	assert.True(t, IsReasoningLeak("[3] please consult drik panchang for more details"))
	assert.True(t, IsReasoningLeak("Sunrise is at 6 AM [1]."))
	assert.True(t, IsReasoningLeak("Let's tackle this step by step"))
	assert.True(t, IsReasoningLeak("The user is asking about Ekadashi"))
	assert.False(t, IsReasoningLeak("Shri Krishna should be worshipped with tulsi."))
	assert.False(t, IsReasoningLeak("Tithi: Amavasya"))
}

func TestIsCalendarContent(t *testing.T) {
	assert.True(t, IsCalendarContent("Today's Tithi is Dashami"))
	assert.True(t, IsCalendarContent("Abhijit MUHURAT"))
	assert.True(t, IsCalendarContent("rahukaal timings"))
	assert.False(t, IsCalendarContent("Chant Om Namah Shivaya daily"))
}

func TestIsCalendarLine(t *testing.T) {
	assert.True(t, IsCalendarLine("Sunrise: 6:12"))
	assert.True(t, IsCalendarLine("Starts at 6 PM and ends at dawn"))
	assert.True(t, IsCalendarLine("Nakshatra Rohini all day"))
	assert.False(t, IsCalendarLine("I am grateful for your devotion"))
}
