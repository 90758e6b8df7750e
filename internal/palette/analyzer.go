package palette

import (
	"fmt"
	"time"

	"github.com/Bahjat/page-palette/internal/colour"
	"github.com/Bahjat/page-palette/internal/model"
	"github.com/Bahjat/page-palette/internal/platform/errs"
)

// Analyzer runs the extraction phases over a Document. It keeps no state
// between calls and is safe for concurrent use.
type Analyzer struct {
	now func() time.Time
}

// NewAnalyzer returns an Analyzer stamping results with the wall clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Analyze extracts background, font colours, button colours and font family,
// in that order. Any accessor failure discards the partial result and is
// returned as an errs.ExtractionFault.
func (a *Analyzer) Analyze(doc Document) (result *model.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, errs.Extraction(fmt.Errorf("%v", r))
		}
	}()

	norm := colour.NewNormalizer(doc)

	background, err := ExtractBackground(doc, norm)
	if err != nil {
		return nil, errs.Extraction(err)
	}

	fonts, err := ExtractFontColors(doc, norm)
	if err != nil {
		return nil, errs.Extraction(err)
	}

	buttons, err := ExtractButtonColors(doc, norm)
	if err != nil {
		return nil, errs.Extraction(err)
	}

	font, err := ExtractFont(doc)
	if err != nil {
		return nil, errs.Extraction(err)
	}

	primaryFont, secondaryFont := topTwo(fonts)
	if primaryFont == nil && doc.Mode() == ModeStatic {
		primaryFont, secondaryFont = ptr(DefaultStaticPrimaryFont), ptr(DefaultStaticSecondaryFont)
	}

	// Without buttons the font colours stand in for the button colours.
	primaryButton, secondaryButton := topTwo(buttons)
	if primaryButton == nil {
		primaryButton, secondaryButton = primaryFont, secondaryFont
	}

	return &model.AnalysisResult{
		BackgroundColor:      &background,
		PrimaryColorFont:     primaryFont,
		PrimaryColorButton:   primaryButton,
		SecondaryColorFont:   secondaryFont,
		SecondaryColorButton: secondaryButton,
		Font:                 font,
		AnalysisTimestamp:    a.now().UTC(),
		URL:                  doc.Location(),
	}, nil
}

func ptr(s string) *string {
	return &s
}
