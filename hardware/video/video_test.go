package video_test

import (
	"io"
	"testing"

	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/hardware/video"
	"github.com/jetsetilly/tileflow/test"
	"github.com/jetsetilly/tileflow/ui"
)

type context struct{}

func (context) Spec() spec.Spec {
	return spec.PAL
}

func TestBankRegister(t *testing.T) {
	for screen := range 2 {
		for charset := range video.TextCharset + 1 {
			v := video.Bank(screen, charset)
			test.ExpectEquality(t, video.BankScreen(v), screen)
			test.ExpectEquality(t, video.BankCharset(v), charset)
		}
	}
}

func TestLoadTileset(t *testing.T) {
	vid := video.Create(context{}, nil)
	test.ExpectFailure(t, vid.LoadTileset(make([]uint8, 100)))
	test.ExpectSuccess(t, vid.LoadTileset(make([]uint8, video.TilesetSize)))
}

func TestScreenCode(t *testing.T) {
	test.ExpectEquality(t, video.ScreenCode('A'), 1)
	test.ExpectEquality(t, video.ScreenCode('z'), 26)
	test.ExpectEquality(t, video.ScreenCode('@'), 0)
	test.ExpectEquality(t, video.ScreenCode('0'), 0x30)
	test.ExpectEquality(t, video.ScreenCode(' '), 0x20)
	test.ExpectEquality(t, video.ScreenCode(':'), 0x3a)
	test.ExpectEquality(t, video.ScreenCode('#'), '?')
}

func TestTextWriter(t *testing.T) {
	buf := make([]uint8, 4)
	var w video.TextWriter
	w.Reset(buf)

	n, err := w.Write([]byte("AB"))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 2)
	w.Pad()
	test.ExpectEquality(t, string(buf), string([]byte{1, 2, 0x20, 0x20}))

	w.Reset(buf)
	n, err = w.Write([]byte("12345"))
	test.ExpectEquality(t, err, io.ErrShortWrite)
	test.ExpectEquality(t, n, 4)
	test.ExpectEquality(t, string(buf), "1234")
}

func TestSnapshotLatches(t *testing.T) {
	vid := video.Create(context{}, nil)

	vid.Screen(0)[0] = 5
	vid.Screen(1)[0] = 6
	vid.Screen(0)[video.StatusRow*spec.Columns] = 7
	vid.Screen(1)[video.StatusRow*spec.Columns] = 8

	// top of screen shows screen 1 with animation bank 2. status row shows
	// screen 0 with the text bank
	vid.WriteBank(video.Bank(1, 2))
	vid.Latch(false)
	vid.WriteBank(video.Bank(0, video.TextCharset))
	vid.Latch(true)

	f := vid.Snapshot()
	test.ExpectEquality(t, f.Screen[0], 6)
	test.ExpectEquality(t, f.Bank[0], 2)
	test.ExpectEquality(t, f.Screen[video.StatusRow*spec.Columns], 7)
	test.ExpectEquality(t, f.Bank[video.StatusRow*spec.Columns], ui.TextBank)
	test.ExpectEquality(t, vid.Visible(), 1)

	test.ExpectEquality(t, f.Main.Bounds().Dx(), spec.FrameWidth)
	test.ExpectEquality(t, f.Main.Bounds().Dy(), spec.FrameHeight)
}

func TestRenderColours(t *testing.T) {
	vid := video.Create(context{}, nil)

	// every glyph in every bank is a solid block
	ts := make([]uint8, video.TilesetSize)
	for i := range ts {
		ts[i] = 0xff
	}
	test.DemandSuccess(t, vid.LoadTileset(ts))

	vid.SetBorder(spec.Brown)
	vid.SetMulticolour(true, spec.Black, spec.Gray1, spec.Yellow)
	vid.FillColour(0, video.ScreenSize, spec.LightRed)
	vid.FillColour(video.StatusRow*spec.Columns, video.ScreenSize, spec.Red)

	f := vid.Snapshot()
	pal := spec.PAL.Palette

	// border
	test.ExpectEquality(t, f.Main.RGBAAt(0, 0), pal[spec.Brown])

	// multicolour cell with all bits set uses the colour RAM with the
	// multicolour bit removed
	test.ExpectEquality(t, f.Main.RGBAAt(spec.BorderWidth, spec.BorderHeight), pal[spec.LightRed&0x07])

	// screen code zero in the text bank is the '@' glyph. the first pixel of
	// the first line is not set and so is the background
	statusY := spec.BorderHeight + video.StatusRow*spec.CharHeight
	vid.WriteBank(video.Bank(0, video.TextCharset))
	vid.Latch(true)
	f = vid.Snapshot()
	test.ExpectEquality(t, f.Main.RGBAAt(spec.BorderWidth, statusY), pal[spec.Black])
	test.ExpectEquality(t, f.Main.RGBAAt(spec.BorderWidth+2, statusY), pal[spec.Red])
}

func TestPushRender(t *testing.T) {
	u := ui.NewUI()
	vid := video.Create(context{}, u)

	vid.PushRender()
	// the second push is dropped because the channel is full
	vid.PushRender()

	f := <-u.SetImage
	test.ExpectEquality(t, f.ID, "1")

	select {
	case <-u.SetImage:
		t.Errorf("unexpected frame in channel")
	default:
	}
}
