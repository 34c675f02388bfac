package encoding

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Codec is a named source encoding.
type Codec struct {
	Name string
	enc  encoding.Encoding
	kind codecKind
}

type codecKind int

const (
	kindTable codecKind = iota
	kindUTF8
	kindASCII
)

func (c *Codec) String() string { return c.Name }

// IsUTF8 reports whether c decodes without transformation.
func (c *Codec) IsUTF8() bool { return c.kind == kindUTF8 }

var (
	UTF8  = &Codec{Name: "utf-8", kind: kindUTF8}
	ASCII = &Codec{Name: "ascii", kind: kindASCII}
)

type codecEntry struct {
	codec   *Codec
	aliases []string
}

func table(name string, enc encoding.Encoding, aliases ...string) codecEntry {
	return codecEntry{codec: &Codec{Name: name, enc: enc}, aliases: aliases}
}

// codecTable mirrors the standard codec alias registry, restricted to the
// encodings golang.org/x/text can decode.
var codecTable = []codecEntry{
	{codec: UTF8, aliases: []string{"utf8", "u8", "utf", "utf8_ucs2", "utf8_ucs4", "cp65001", "utf_8_sig"}},
	{codec: ASCII, aliases: []string{"646", "ansi_x3.4_1968", "ansi_x3_4_1968", "ansi_x3.4_1986", "cp367", "csascii", "ibm367", "iso646_us", "iso_646.irv_1991", "iso_ir_6", "us", "us_ascii"}},
	table("latin-1", charmap.ISO8859_1, "latin_1", "iso8859_1", "8859", "cp819", "csisolatin1", "ibm819", "iso8859", "iso_8859_1", "iso_8859_1_1987", "iso_ir_100", "l1", "latin", "latin1"),
	table("iso8859-2", charmap.ISO8859_2, "csisolatin2", "iso_8859_2", "iso_8859_2_1987", "iso_ir_101", "l2", "latin2"),
	table("iso8859-3", charmap.ISO8859_3, "csisolatin3", "iso_8859_3", "iso_8859_3_1988", "iso_ir_109", "l3", "latin3"),
	table("iso8859-4", charmap.ISO8859_4, "csisolatin4", "iso_8859_4", "iso_8859_4_1988", "iso_ir_110", "l4", "latin4"),
	table("iso8859-5", charmap.ISO8859_5, "csisolatincyrillic", "cyrillic", "iso_8859_5", "iso_8859_5_1988", "iso_ir_144"),
	table("iso8859-6", charmap.ISO8859_6, "arabic", "asmo_708", "csisolatinarabic", "ecma_114", "iso_8859_6", "iso_8859_6_1987", "iso_ir_127"),
	table("iso8859-7", charmap.ISO8859_7, "csisolatingreek", "ecma_118", "elot_928", "greek", "greek8", "iso_8859_7", "iso_8859_7_1987", "iso_ir_126"),
	table("iso8859-8", charmap.ISO8859_8, "csisolatinhebrew", "hebrew", "iso_8859_8", "iso_8859_8_1988", "iso_ir_138"),
	table("iso8859-9", charmap.ISO8859_9, "csisolatin5", "iso_8859_9", "iso_8859_9_1989", "iso_ir_148", "l5", "latin5"),
	table("iso8859-10", charmap.ISO8859_10, "csisolatin6", "iso_8859_10", "iso_8859_10_1992", "iso_ir_157", "l6", "latin6"),
	table("iso8859-13", charmap.ISO8859_13, "iso_8859_13", "l7", "latin7"),
	table("iso8859-14", charmap.ISO8859_14, "iso_8859_14", "iso_8859_14_1998", "iso_celtic", "iso_ir_199", "l8", "latin8"),
	table("iso8859-15", charmap.ISO8859_15, "iso_8859_15", "l9", "latin9"),
	table("iso8859-16", charmap.ISO8859_16, "iso_8859_16", "iso_8859_16_2001", "iso_ir_226", "l10", "latin10"),
	table("cp437", charmap.CodePage437, "437", "ibm437"),
	table("cp850", charmap.CodePage850, "850", "ibm850"),
	table("cp852", charmap.CodePage852, "852", "ibm852"),
	table("cp855", charmap.CodePage855, "855", "ibm855"),
	table("cp858", charmap.CodePage858, "858", "ibm858"),
	table("cp860", charmap.CodePage860, "860", "ibm860"),
	table("cp862", charmap.CodePage862, "862", "ibm862"),
	table("cp863", charmap.CodePage863, "863", "ibm863"),
	table("cp865", charmap.CodePage865, "865", "ibm865"),
	table("cp866", charmap.CodePage866, "866", "ibm866"),
	table("cp874", charmap.Windows874, "windows_874"),
	table("cp1250", charmap.Windows1250, "windows_1250"),
	table("cp1251", charmap.Windows1251, "windows_1251"),
	table("cp1252", charmap.Windows1252, "windows_1252"),
	table("cp1253", charmap.Windows1253, "windows_1253"),
	table("cp1254", charmap.Windows1254, "windows_1254"),
	table("cp1255", charmap.Windows1255, "windows_1255"),
	table("cp1256", charmap.Windows1256, "windows_1256"),
	table("cp1257", charmap.Windows1257, "windows_1257"),
	table("cp1258", charmap.Windows1258, "windows_1258"),
	table("koi8-r", charmap.KOI8R, "cskoi8r"),
	table("koi8-u", charmap.KOI8U),
	table("mac-roman", charmap.Macintosh, "macroman", "macintosh"),
	table("mac-cyrillic", charmap.MacintoshCyrillic, "maccyrillic"),
	table("shift_jis", japanese.ShiftJIS, "csshiftjis", "shiftjis", "sjis", "s_jis", "cp932", "932", "ms932", "mskanji", "ms_kanji"),
	table("euc_jp", japanese.EUCJP, "eucjp", "ujis", "u_jis"),
	table("iso2022_jp", japanese.ISO2022JP, "csiso2022jp", "iso2022jp", "iso_2022_jp"),
	table("euc_kr", korean.EUCKR, "euckr", "korean", "ksc5601", "ks_c_5601", "ks_c_5601_1987", "ksx1001", "ks_x_1001", "cp949", "949", "ms949", "uhc"),
	table("gbk", simplifiedchinese.GBK, "936", "cp936", "ms936", "gb2312", "chinese", "csiso58gb231280", "euc_cn", "euccn", "eucgb2312_cn", "gb2312_1980", "gb2312_80", "iso_ir_58"),
	table("gb18030", simplifiedchinese.GB18030, "gb18030_2000"),
	table("hz", simplifiedchinese.HZGB2312, "hzgb", "hz_gb", "hz_gb_2312"),
	table("big5", traditionalchinese.Big5, "big5_tw", "csbig5", "cp950", "950", "ms950"),
	table("utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), "u16", "utf16"),
	table("utf-16-le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), "utf_16le", "unicodelittleunmarked"),
	table("utf-16-be", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), "utf_16be", "unicodebigunmarked"),
	table("utf-32", utf32.UTF32(utf32.LittleEndian, utf32.UseBOM), "u32", "utf32"),
	table("utf-32-le", utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM), "utf_32le"),
	table("utf-32-be", utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM), "utf_32be"),
}

var codecIndex map[string]*Codec

func init() {
	codecIndex = make(map[string]*Codec)
	for _, e := range codecTable {
		codecIndex[Normalize(e.codec.Name)] = e.codec
		for _, alias := range e.aliases {
			codecIndex[Normalize(alias)] = e.codec
		}
	}
}

// Normalize folds a codec name: lower case, with hyphens and spaces
// turned into underscores.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "_", " ", "_").Replace(name)
}

// Lookup resolves a codec name or alias.
func Lookup(name string) (*Codec, bool) {
	c, ok := codecIndex[Normalize(name)]
	return c, ok
}

// ErrUnknownCodec is returned by Get for a name no codec answers to.
var ErrUnknownCodec = errors.New("unknown encoding")

// Get is Lookup reporting unknown names as an error.
func Get(name string) (*Codec, error) {
	if c, ok := Lookup(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCodec, name)
}

// Names returns the canonical names of every known codec.
func Names() []string {
	names := make([]string, 0, len(codecTable))
	for _, e := range codecTable {
		names = append(names, e.codec.Name)
	}
	return names
}

// Decode converts data to UTF-8 text. UTF-8 input is returned unchanged,
// even when it holds invalid sequences; the offset of the first invalid
// byte is reported through the error.
func (c *Codec) Decode(data []byte) (string, error) {
	switch c.kind {
	case kindUTF8:
		if off := invalidUTF8(data); off >= 0 {
			return string(data), &DecodeError{Codec: c.Name, Offset: off}
		}
		return string(data), nil
	case kindASCII:
		for i, b := range data {
			if b >= 0x80 {
				return string(data), &DecodeError{Codec: c.Name, Offset: i}
			}
		}
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return string(data), fmt.Errorf("decode %s: %w", c.Name, err)
	}
	return string(out), nil
}

// DecodeError locates a byte the codec could not decode.
type DecodeError struct {
	Codec  string
	Offset int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("'%s' codec can't decode byte at position %d", e.Codec, e.Offset)
}
