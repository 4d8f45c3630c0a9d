package render

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Directories searched for installed font files.
var fontDirs = []string{
	"/usr/share/fonts/truetype",
	"/usr/share/fonts",
	"/usr/local/share/fonts",
	"/System/Library/Fonts",
	"/Library/Fonts",
}

// Common families tried when the brand font cannot be found.
var systemFamilies = []string{"DejaVuSans", "Helvetica", "Arial", "Roboto", "LiberationSans"}

// resolveFace loads a font face for the family at the given size,
// falling back through installed system fonts, the embedded Go Regular,
// and finally the fixed bitmap face which can never fail.
func resolveFace(family string, size float64) font.Face {
	for _, candidate := range append([]string{family}, systemFamilies...) {
		if candidate == "" {
			continue
		}
		if face := loadInstalled(candidate, size); face != nil {
			return face
		}
	}
	if face := parseFace(goregular.TTF, size); face != nil {
		return face
	}
	return basicfont.Face7x13
}

func loadInstalled(family string, size float64) font.Face {
	needle := strings.ToLower(strings.ReplaceAll(family, " ", ""))
	for _, dir := range fontDirs {
		var found string
		filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || found != "" || info.IsDir() {
				return nil
			}
			name := strings.ToLower(info.Name())
			if !strings.HasSuffix(name, ".ttf") && !strings.HasSuffix(name, ".otf") {
				return nil
			}
			if strings.Contains(strings.ReplaceAll(name, " ", ""), needle) {
				found = path
			}
			return nil
		})
		if found == "" {
			continue
		}
		data, err := os.ReadFile(found)
		if err != nil {
			continue
		}
		if face := parseFace(data, size); face != nil {
			return face
		}
	}
	return nil
}

func parseFace(ttf []byte, size float64) font.Face {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil
	}
	return face
}
