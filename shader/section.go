package shader

import "strings"

// Stage identifies one permutable section of a shader file.
type Stage int

const (
	StageVertex Stage = iota // [VERTEX_SHADER]
	StageHull                // [HULL_SHADER]
	StageDomain              // [DOMAIN_SHADER]
	StageGeometry            // [GEOMETRY_SHADER]
	StagePixel               // [PIXEL_SHADER]
	StageCompute             // [COMPUTE_SHADER]

	StageUser1 // custom slot, rename with Library.SetSectionName
	StageUser2
	StageUser3
	StageUser4
	StageUser5
	StageUser6
	StageUser7
	StageUser8

	NumStages
)

// defaultSectionNames holds the header line of each stage section.
var defaultSectionNames = [NumStages]string{
	"[VERTEX_SHADER]",
	"[HULL_SHADER]",
	"[DOMAIN_SHADER]",
	"[GEOMETRY_SHADER]",
	"[PIXEL_SHADER]",
	"[COMPUTE_SHADER]",
	"[USER_1]",
	"[USER_2]",
	"[USER_3]",
	"[USER_4]",
	"[USER_5]",
	"[USER_6]",
	"[USER_7]",
	"[USER_8]",
}

// Sectionizer determines where named sections start and end inside a text.
//
// A section starts with a unique keyword that should appear nowhere else in
// the text and runs to the start of the next registered section. A section
// registered with an empty name captures everything before the first
// header. The processed text is not copied; section contents are slices of
// it.
type Sectionizer struct {
	fullText string
	sections []section
}

type section struct {
	name      string
	start     int // byte offset of the header, -1 if absent
	content   string
	firstLine int
}

// AddSection registers a section keyword expected in the text.
func (s *Sectionizer) AddSection(name string) {
	s.sections = append(s.sections, section{name: name, start: -1})
}

// Process searches the text for all registered sections.
func (s *Sectionizer) Process(text string) {
	s.fullText = text

	for i := range s.sections {
		sec := &s.sections[i]
		sec.start = -1
		sec.content = ""
		sec.firstLine = 0

		if pos := strings.Index(text, sec.name); pos >= 0 {
			sec.start = pos
			sec.content = text[pos+len(sec.name):]
		}
	}

	for i := range s.sections {
		sec := &s.sections[i]
		if sec.start < 0 {
			continue
		}

		sec.firstLine = 1 + strings.Count(text[:sec.start], "\n")

		contentStart := sec.start + len(sec.name)
		contentEnd := contentStart + len(sec.content)

		for j := range s.sections {
			if i == j {
				continue
			}
			other := &s.sections[j]

			// an equal start position cuts off the headerless catch-all
			// section registered with an empty name
			if other.start > sec.start || (other.start == sec.start && sec.name == "" && other.name != "") {
				if other.start < contentEnd {
					contentEnd = max(other.start, contentStart)
				}
			}
		}

		sec.content = text[contentStart:contentEnd]
	}
}

// SectionContent returns the content of the section registered at the
// given index and the line number the section starts on.
func (s *Sectionizer) SectionContent(idx int) (content string, firstLine int) {
	return s.sections[idx].content, s.sections[idx].firstLine
}
