// Package styles holds the fixed prompt templates sent to the enhancement
// model: a default "modernize" redesign prompt plus the selectable preset
// styles shown in the UI.
package styles

import "fmt"

type DesignStyle struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Subtitle string `json:"subtitle"`
	Prompt   string `json:"-"`
}

const baseConstraints = `
ABSOLUTE NON-NEGOTIABLE CONSTRAINTS (MUST NOT CHANGE):
- Keep the EXACT SAME image dimensions, framing, and resolution.
- Keep the EXACT SAME camera angle, lens perspective, and vantage point.
- Keep the EXACT SAME architecture, wall positions, openings, ceiling height, and structural layout.
- Keep the EXACT SAME spatial configuration (nothing moved that changes room geometry).
- Do NOT add new doors/windows, remove doors/windows, change room boundaries, or alter structural elements.
- The result must look like the same room photographed from the same spot, only redesigned.

FUNCTIONAL INTEGRITY:
- A kitchen remains a kitchen; bedroom remains a bedroom; living room remains a living room.
- Do NOT convert room type or add features that change how the room is used.

QUALITY BAR:
- The redesign must look materially expensive and architecturally coherent.
- Everything should feel bespoke, intentional, and professionally executed.
- It must look cleaner, calmer, richer, and more elevated than the original.
- No visible cheap elements remain.
- The final result MUST look much nicer than the original. This is not optional.
- No obvious AI artifacts, painterly textures, or unrealistic reflections.
- Do NOT add people, text, logos, watermarks, or signage.
- Return only the transformed image.
`

var modernizePrompt = `You are performing a top-tier luxury redesign of this real estate photo as if the project has been re-executed by a world-class, highest-end interior designer AND architect who specialize exclusively in $10M+ ultra-luxury residences (architectural-digest-level work, private client, no budget constraints, museum-level detailing).

PRIMARY MISSION: Transform the space into the highest tier of modern luxury design while preserving the room's exact structure and photography conditions. The finished image MUST look significantly nicer, more expensive, more refined, and more professionally designed than the original, without looking artificial, over-styled, or generically "staged".
` + baseConstraints + `
REDESIGN REQUIREMENTS (DO ALL OF THESE, CONSISTENTLY):

1) ARCHITECTURAL FINISH UPGRADE (WITHOUT CHANGING ARCHITECTURE)
- Walls: flawless high-end finishes (plaster, refined paint, designer wallcovering) appropriate to the room.
- Trim: premium trim language (thin reveals, elegant baseboards/casing, subtle crown if appropriate) without changing room geometry.
- Ceilings: luxury detailing ONLY if it fits the existing style and does not alter perceived room height.
- Transitions: all material transitions clean, premium, and architecturally correct.

2) FLOORS & STONEWORK
- Upgrade flooring to premium wide-plank hardwood, natural stone, or top-tier tile appropriate to the room's function.
- Any visible stone becomes book-matched marble/quartzite or equally premium natural material with realistic veining and correct scale.

3) FIXTURES, HARDWARE, AND SMALL DETAILS
- Every visible touch point upgraded to designer grade: door and cabinet hardware, plumbing fixtures, lighting, switch plates, vents, hinges. Consistent finish family, nothing builder-basic remains.

4) LIGHTING DESIGN
- Layered lighting: ambient + accent + decorative, warm controlled color temperature, soft highlights, no harsh glare.
- Subtle architectural lighting where appropriate WITHOUT changing ceiling structure. Physically plausible shadows and reflections.

5) FURNITURE, SOFT GOODS, AND SCALE
- Replace furnishings with contemporary high-end pieces at correct scale: refined silhouettes, premium upholstery, luxury table materials, properly sized natural-fiber rugs, custom window treatments, hotel-grade bedding where applicable.

6) COLOR, PALETTE, AND MATERIAL HARMONY
- Cohesive restrained luxury palette: neutrals with depth, subtle contrast, intentional accents. Wood tones, metal finishes, stone veining and textiles must all coordinate.

7) ART, ACCESSORIES, AND STYLING
- Properly scaled high-end wall art, curated designer accessories with restraint, mature architectural plants in designer planters. Styling must feel wealthy and intentional, not staged or busy.

NEGATIVES:
- Do NOT over-style, over-clutter, or add random decorative noise.
- Do NOT use cheap luxury signals (gaudy chandeliers, tacky glam, random gold everywhere).
- Do NOT introduce mismatched finishes or generic furniture-catalog staging.

FINAL INSTRUCTION: Return only the transformed image of the same room from the same viewpoint, now executed at the highest level of luxury design.`

var designStyles = []DesignStyle{
	{
		Key:      "avant-garde",
		Name:     "Avant-Garde",
		Subtitle: "Bold geometry meets artistic vision",
		Prompt: `You are performing a radical avant-garde redesign of this space, as envisioned by a collaboration between Zaha Hadid Architects, James Turrell, and the most daring contemporary design minds working today. The result should feel like a museum-quality installation that happens to be livable.
` + baseConstraints + `
DESIGN DIRECTION - AVANT-GARDE:
- Every surface intentional and sculptural; bold geometric forms, organic curves meeting sharp angles, asymmetric balance. Negative space matters as much as filled space.
- Materials: polished concrete, raw plaster with intentional texture, blackened steel, cast bronze, translucent resin, backlit onyx, smoked glass. Light itself used as material.
- Floors: poured terrazzo with bold aggregate, micro-cement, or oversized-format stone with dramatic veining.
- Sculptural statement furniture, gallery-grade lighting, nothing safe, expected, or conventionally pretty.`,
	},
	{
		Key:      "timeless-estate",
		Name:     "Timeless Estate",
		Subtitle: "Old-world elegance, reimagined",
		Prompt: `Redesign this space as a timeless luxury estate: classical proportion and old-world craftsmanship executed with a contemporary hand, the way the finest Parisian and London townhouse renovations are done today.
` + baseConstraints + `
DESIGN DIRECTION - TIMELESS ESTATE:
- Refined paneling and mouldings, herringbone or wide-plank oak floors, honed marble, aged brass and bronze hardware.
- Classical furniture silhouettes in modern premium textiles, layered antique and contemporary pieces, heirloom-quality rugs.
- Warm layered lighting from elegant fixtures; tailored drapery with perfect hang.
- Restrained palette of warm neutrals, deep accents, nothing themed or reproduction-looking.`,
	},
	{
		Key:      "pure-form",
		Name:     "Pure Form",
		Subtitle: "The art of essential space",
		Prompt: `Redesign this space in the spirit of the great minimalists: John Pawson, Vincent Van Duysen, Axel Vervoordt. Absolute reduction to the essential, executed with extraordinary material quality.
` + baseConstraints + `
DESIGN DIRECTION - PURE FORM:
- Seamless plaster walls, shadow-gap detailing, hidden storage, uninterrupted planes.
- Materials with quiet depth: limed oak, honed limestone, linen, unfinished bronze.
- Very few, perfect pieces of furniture; generous negative space; soft diffuse natural light.
- Monochromatic warm-neutral palette; texture carries the richness, not color or ornament.`,
	},
	{
		Key:      "resort-living",
		Name:     "Resort Living",
		Subtitle: "Permanent vacation, elevated",
		Prompt: `Redesign this space as a five-star private resort residence: Aman-level serenity and indoor-outdoor luxury, the feeling of a permanent vacation executed at the highest standard.
` + baseConstraints + `
DESIGN DIRECTION - RESORT LIVING:
- Natural materials: teak, travertine, rattan in refined forms, washed linen, natural stone.
- Breezy layered textiles, oversized comfortable seating, spa-like calm.
- Lush mature greenery in statement planters; warm sunlit atmosphere.
- Palette of sand, ivory, driftwood and soft greens; nothing kitschy or tiki.`,
	},
	{
		Key:      "urban-penthouse",
		Name:     "Urban Penthouse",
		Subtitle: "City living at its apex",
		Prompt: `Redesign this space as a top-floor metropolitan penthouse: sleek, dramatic, collected, the home of someone at the apex of city life.
` + baseConstraints + `
DESIGN DIRECTION - URBAN PENTHOUSE:
- High-gloss and matte contrasts: smoked oak, black marble, bronze mirror, lacquer.
- Low-slung designer furniture, statement lighting, a collected-art sensibility.
- Moody sophisticated palette: charcoal, espresso, camel, brass accents.
- Everything tailored, architectural and intentional; city glamour without flash.`,
	},
	{
		Key:      "coastal-modern",
		Name:     "Coastal Modern",
		Subtitle: "Where land meets luxury",
		Prompt: `Redesign this space as modern coastal luxury: the restraint of contemporary architecture with the ease of a waterfront estate.
` + baseConstraints + `
DESIGN DIRECTION - COASTAL MODERN:
- White oak, pale stone, matte white surfaces, woven natural textures.
- Relaxed deep seating in performance linen, driftwood tones, subtle nautical restraint (no literal nautical decor).
- Light-filled, airy atmosphere; sheer window treatments.
- Palette of white, sand, fog gray and sea-glass accents.`,
	},
	{
		Key:      "executive-modern",
		Name:     "Executive Modern",
		Subtitle: "Command presence, refined taste",
		Prompt: `Redesign this space as executive modern luxury: the private residence of a discerning leader, precise, masculine-leaning, impeccably controlled.
` + baseConstraints + `
DESIGN DIRECTION - EXECUTIVE MODERN:
- Dark rift-cut oak, leather, smoked glass, brushed steel and stone with strong veining.
- Architectural built-ins, precise reveal lines, concealed lighting.
- Substantial tailored furniture; a strong but restrained art program.
- Palette of graphite, walnut, cognac and off-black; disciplined, never cold.`,
	},
}

// ByKey returns the preset for key, if it exists.
func ByKey(key string) (DesignStyle, bool) {
	for _, s := range designStyles {
		if s.Key == key {
			return s, true
		}
	}
	return DesignStyle{}, false
}

// All returns the selectable presets in display order.
func All() []DesignStyle {
	out := make([]DesignStyle, len(designStyles))
	copy(out, designStyles)
	return out
}

// BuildPrompt assembles the instruction sent to the model: the preset matching
// styleKey (or the default modernize prompt when the key is unknown or empty),
// with the user's custom instructions appended. The returned name is the
// preset's display name, or "" when no preset matched.
func BuildPrompt(styleKey, userPrompt string) (prompt, styleName string) {
	prompt = modernizePrompt
	if s, ok := ByKey(styleKey); ok {
		prompt = s.Prompt
		styleName = s.Name
	}
	if userPrompt != "" {
		prompt = fmt.Sprintf("%s\n\nADDITIONAL USER INSTRUCTIONS: %s", prompt, userPrompt)
	}
	return prompt, styleName
}
