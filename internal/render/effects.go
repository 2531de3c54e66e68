package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// zoompan crops at integer coordinates, so scenes are generated at an
// oversampled resolution and downscaled to hide the stepping.
const zoomOversample = 2

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func asFloat(v any, fallback float64) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return fallback
		}
		return f
	default:
		return fallback
	}
}

func asString(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// BuildEffectsFilter compiles an effects object into an FFmpeg filter chain
// for one timeline item. The returned chain has no trailing comma and always
// ends with fps, trim, and pixel format stages so concatenated scenes line up
// exactly.
func BuildEffectsFilter(effects map[string]any, width, height, fps int, duration float64) string {
	var chain []string

	zoomCfg := asMap(effects["zoom"])
	motionCfg := asMap(effects["motion"])
	focusCfg := asMap(effects["focus"])

	if zoomCfg != nil || motionCfg != nil || focusCfg != nil {
		zoomType := asString(zoomCfg["type"], "in")
		targetScale := clampFloat(asFloat(zoomCfg["scale"], 1.1), 1.0, 3.0)

		motionDir := asString(motionCfg["direction"], "right")
		intensity := clampFloat(asFloat(motionCfg["intensity"], 0.0), 0.0, 0.5)

		zoomRamp := clampFloat(asFloat(zoomCfg["duration"], duration), 0.01, duration)

		totalFrames := int(math.Round(duration * float64(fps)))
		if totalFrames < 1 {
			totalFrames = 1
		}
		rampFrames := int(math.Round(zoomRamp * float64(fps)))
		if rampFrames < 1 {
			rampFrames = 1
		}

		startZ, endZ := 1.0, targetScale
		if zoomType == "out" {
			startZ, endZ = targetScale, 1.0
		}

		// Linear ramp over the first rampFrames output frames, then hold.
		var zExpr string
		if rampFrames <= 1 {
			zExpr = fmt.Sprintf("%.6f", endZ)
		} else {
			zExpr = fmt.Sprintf("%.6f+(%.6f-%.6f)*min(on-1\\,%d)/%d",
				startZ, endZ, startZ, rampFrames-1, rampFrames-1)
		}

		// Crop window offsets stay on whole pixels to avoid sub-pixel wobble.
		xCenter := "floor((iw-iw/zoom)/2)"
		yCenter := "floor((ih-ih/zoom)/2)"

		progressDenom := totalFrames - 1
		if progressDenom < 1 {
			progressDenom = 1
		}
		progress := fmt.Sprintf("(on-1)/%d", progressDenom)
		xOffset, yOffset := "0", "0"
		if intensity > 0 {
			switch motionDir {
			case "left":
				xOffset = fmt.Sprintf("-(%.6f)*(iw-iw/zoom)*%s", intensity, progress)
			case "right":
				xOffset = fmt.Sprintf("(%.6f)*(iw-iw/zoom)*%s", intensity, progress)
			case "up":
				yOffset = fmt.Sprintf("-(%.6f)*(ih-ih/zoom)*%s", intensity, progress)
			case "down":
				yOffset = fmt.Sprintf("(%.6f)*(ih-ih/zoom)*%s", intensity, progress)
			}
		}
		xExpr := fmt.Sprintf("floor(%s+%s)", xCenter, xOffset)
		yExpr := fmt.Sprintf("floor(%s+%s)", yCenter, yOffset)

		ow := width * zoomOversample
		oh := height * zoomOversample
		chain = append(chain,
			fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase", ow, oh),
			fmt.Sprintf("crop=%d:%d", ow, oh),
			fmt.Sprintf("zoompan=z='%s':x='%s':y='%s':d=%d:s=%dx%d:fps=%d",
				zExpr, xExpr, yExpr, totalFrames, ow, oh, fps),
			fmt.Sprintf("scale=%d:%d:flags=lanczos", width, height),
		)
	} else {
		chain = append(chain,
			fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
			fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2", width, height),
		)
	}

	if fadeCfg := asMap(effects["fade"]); fadeCfg != nil {
		fadeType := strings.ToLower(asString(fadeCfg["type"], "in"))
		fadeDur := clampFloat(asFloat(fadeCfg["duration"], 1.0), 0.0, duration)
		if (fadeType == "in" || fadeType == "inout") && fadeDur > 0 {
			chain = append(chain, fmt.Sprintf("fade=t=in:st=0:d=%.6f", fadeDur))
		}
		if (fadeType == "out" || fadeType == "inout") && fadeDur > 0 {
			startOut := math.Max(0, duration-fadeDur)
			chain = append(chain, fmt.Sprintf("fade=t=out:st=%.6f:d=%.6f", startOut, fadeDur))
		}
	}

	if darkenCfg := asMap(effects["darken"]); darkenCfg != nil {
		amount := clampFloat(asFloat(darkenCfg["amount"], 0.0), 0.0, 1.0)
		// brightness range is roughly [-1..1]; map amount 0..1 to 0..-0.3
		chain = append(chain, fmt.Sprintf("eq=brightness=%.6f", -0.3*amount))
	}

	if vignetteCfg := asMap(effects["vignette"]); vignetteCfg != nil {
		angle := clampFloat(asFloat(vignetteCfg["angle"], 0.6), 0.0, math.Pi/2)
		evalMode := "init"
		if strings.ToLower(asString(vignetteCfg["eval"], "init")) == "frame" {
			evalMode = "frame"
		}
		chain = append(chain, fmt.Sprintf("vignette=angle=%g:eval=%s", angle, evalMode))
	}

	// Deterministic frame rate and exact scene duration for concat.
	chain = append(chain,
		fmt.Sprintf("fps=%d", fps),
		fmt.Sprintf("trim=duration=%.6f", duration),
		"format=yuv420p",
	)

	return strings.Join(chain, ",")
}
