package screen

import (
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

type fontSet struct {
	big   font.Face // preset name
	med   font.Face // labels
	small font.Face // status line
}

var dejavuPaths = map[string]string{
	"regular": "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"bold":    "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
}

// loadFonts loads the DejaVu faces installed on Raspberry Pi OS. When they
// are missing, the fixed 7x13 basicfont keeps the UI working.
func loadFonts() fontSet {
	bold := loadFace(dejavuPaths["bold"], 28)
	regular := loadFace(dejavuPaths["regular"], 18)
	small := loadFace(dejavuPaths["regular"], 13)
	if bold == nil || regular == nil || small == nil {
		log.Printf("screen: DejaVu fonts not found, using builtin font")
		return fontSet{big: basicfont.Face7x13, med: basicfont.Face7x13, small: basicfont.Face7x13}
	}
	return fontSet{big: bold, med: regular, small: small}
}

func loadFace(path string, size float64) font.Face {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	f, err := opentype.Parse(b)
	if err != nil {
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil
	}
	return face
}
