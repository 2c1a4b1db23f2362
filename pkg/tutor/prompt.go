package tutor

import (
	"fmt"
	"math"
	"strings"

	"github.com/teslashibe/lenslab/pkg/narration"
	"github.com/teslashibe/lenslab/pkg/optics"
)

type phrasebook struct {
	convex, concave string
	analyze         string
	natures         map[optics.Zone]string
	instruction     string
}

var phrasebooks = map[narration.Language]phrasebook{
	narration.Chinese: {
		convex:  "凸透镜 (Convex Lens)",
		concave: "凹透镜 (Concave Lens)",
		analyze: "请分析当前的成像状态和原因。",
		natures: map[optics.Zone]string{
			optics.ZoneBeyond2F:   "倒立、缩小的实像 (Real, Inverted, Diminished)",
			optics.ZoneAt2F:       "倒立、等大的实像 (Real, Inverted, Same Size)",
			optics.ZoneBetween:    "倒立、放大的实像 (Real, Inverted, Magnified)",
			optics.ZoneAtF:        "不成像 (No Image - Parallel rays)",
			optics.ZoneInsideF:    "正立、放大的虚像 (Virtual, Upright, Magnified)",
			optics.ZoneConcaveAll: "正立、缩小的虚像 (Virtual, Upright, Diminished)",
		},
		instruction: "Use Chinese (Simplified) for the response.",
	},
	narration.English: {
		convex:  "Convex Lens",
		concave: "Concave Lens",
		analyze: "Please explain the image the lens forms right now and why.",
		natures: map[optics.Zone]string{
			optics.ZoneBeyond2F:   "Real, Inverted, Diminished",
			optics.ZoneAt2F:       "Real, Inverted, Same Size",
			optics.ZoneBetween:    "Real, Inverted, Magnified",
			optics.ZoneAtF:        "No Image - Parallel rays",
			optics.ZoneInsideF:    "Virtual, Upright, Magnified",
			optics.ZoneConcaveAll: "Virtual, Upright, Diminished",
		},
		instruction: "Use English for the response.",
	},
}

func phrasesFor(lang narration.Language) phrasebook {
	if p, ok := phrasebooks[lang]; ok {
		return p
	}
	return phrasebooks[narration.DefaultLanguage]
}

// AnalyzeQuestion is the preset "analyze the current image" question.
func AnalyzeQuestion(lang narration.Language) string {
	return phrasesFor(lang).analyze
}

// ImageNature describes the image the lens forms for an object at distance.
func ImageNature(lens optics.Lens, distance float64, lang narration.Language) string {
	p := phrasesFor(lang)
	if s, ok := p.natures[optics.Classify(lens, distance)]; ok {
		return s
	}
	// No zone matches; describe the computed image.
	return optics.Compute(lens, optics.Object{Distance: distance, Height: 1}).String()
}

// Context renders the experiment state block sent ahead of every question.
func Context(q Question) string {
	p := phrasesFor(q.Language)
	name := p.convex
	if q.Lens.Type == optics.Concave {
		name = p.concave
	}

	var b strings.Builder
	b.WriteString("当前实验状态 (Current Simulation State):\n")
	fmt.Fprintf(&b, "- 透镜类型 (Lens Type): %s\n", name)
	fmt.Fprintf(&b, "- 焦距 (Focal Length f): %g\n", q.Lens.FocalLength)
	fmt.Fprintf(&b, "- 物距 (Object Distance u): %d\n", int(math.Round(q.Distance)))
	fmt.Fprintf(&b, "- 成像性质 (Image Nature): %s\n", ImageNature(q.Lens, q.Distance, q.Language))
	return b.String()
}

// Prompt builds the full prompt for q.
func Prompt(q Question) string {
	p := phrasesFor(q.Language)

	var b strings.Builder
	b.WriteString("Context:\n")
	b.WriteString(Context(q))
	b.WriteString("\nUser Question: ")
	b.WriteString(strings.TrimSpace(q.Text))
	b.WriteString("\n\nSystem Instruction:\n")
	b.WriteString("You are a friendly and knowledgeable physics teacher (AI Tutor).\n")
	b.WriteString("Answer the student's question based on the provided experiment context.\n")
	b.WriteString("Explain the physics principles (u vs f relation) clearly and concisely.\n")
	b.WriteString(p.instruction)
	b.WriteString("\nFormat the response with simple paragraphs.\n")
	return b.String()
}
