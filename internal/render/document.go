package render

import (
	"encoding/base64"
	"fmt"

	"github.com/corvid-labs/stanza/internal/asset"
)

// Attribute is a single metadata trait.
type Attribute struct {
	TraitType string
	Value     string
}

// Document is the self-contained rendered representation of an asset.
// Image is a data URI embedding the SVG; EncodeURI wraps the whole
// document (metadata plus image) into a second data URI, so a single
// string resolves the asset with no external fetch.
type Document struct {
	Name        string
	Description string
	Image       string
	Attributes  []Attribute
}

// metadataObj builds the canonical value tree for the document.
// Attribute order is preserved as authored by the renderer; key order
// inside each object is fixed by canonical serialization.
func (d Document) metadataObj() asset.Obj {
	attrs := make(asset.Arr, len(d.Attributes))
	for i, a := range d.Attributes {
		attrs[i] = asset.Obj{
			"trait_type": asset.Str(a.TraitType),
			"value":      asset.Str(a.Value),
		}
	}
	return asset.Obj{
		"name":        asset.Str(d.Name),
		"description": asset.Str(d.Description),
		"image":       asset.Str(d.Image),
		"attributes":  attrs,
	}
}

// MetadataJSON returns the canonical JSON metadata bytes.
func (d Document) MetadataJSON() ([]byte, error) {
	data, err := asset.MarshalCanonical(d.metadataObj())
	if err != nil {
		return nil, fmt.Errorf("document metadata: %w", err)
	}
	return data, nil
}

// EncodeURI returns the document as a single self-contained data URI:
// base64-encoded canonical JSON metadata whose image field is itself
// a base64 SVG data URI.
func (d Document) EncodeURI() (string, error) {
	data, err := d.MetadataJSON()
	if err != nil {
		return "", err
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Hash returns the content-addressed hash of the document. Two
// documents hash equal exactly when every rendered byte matches.
func (d Document) Hash() (string, error) {
	data, err := d.MetadataJSON()
	if err != nil {
		return "", err
	}
	return asset.DocumentHash(data), nil
}

func svgDataURI(svg string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// Verse renders the document for a verse. Blank verses get the
// placeholder variant; authored verses render their text.
func (r *Renderer) Verse(in VerseInput) Document {
	state := "Authored"
	description := fmt.Sprintf("Verse #%d of the stanza corpus.", in.ID)
	if !in.Authored {
		state = "Blank"
		description = fmt.Sprintf("Verse #%d of the stanza corpus, awaiting its author.", in.ID)
	}
	return Document{
		Name:        fmt.Sprintf("Verse #%d", in.ID),
		Description: description,
		Image:       svgDataURI(r.verseSVG(in)),
		Attributes: []Attribute{
			{TraitType: "Class", Value: "Verse"},
			{TraitType: "State", Value: state},
		},
	}
}

// Poem renders the document for a poem. Lines must arrive in the
// order stored at creation; the renderer adds nothing and reorders
// nothing.
func (r *Renderer) Poem(in PoemInput) Document {
	return Document{
		Name:        fmt.Sprintf("Poem #%d", in.ID),
		Description: fmt.Sprintf("%q, a poem composed from %d verses of the stanza corpus.", in.Title, len(in.Lines)),
		Image:       svgDataURI(r.poemSVG(in)),
		Attributes: []Attribute{
			{TraitType: "Class", Value: "Poem"},
			{TraitType: "Verses", Value: fmt.Sprintf("%d", len(in.Lines))},
		},
	}
}
