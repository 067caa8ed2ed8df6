package dictionary

import (
	"bytes"
	"embed"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"fixengine/internal/fix"
)

//go:embed data/FIX44.xml
var builtin embed.FS

const maxComponentDepth = 16

type xmlDoc struct {
	XMLName    xml.Name       `xml:"fix"`
	Type       string         `xml:"type,attr"`
	Major      string         `xml:"major,attr"`
	Minor      string         `xml:"minor,attr"`
	Header     xmlSection     `xml:"header"`
	Trailer    xmlSection     `xml:"trailer"`
	Messages   []xmlMessage   `xml:"messages>message"`
	Components []xmlComponent `xml:"components>component"`
	Fields     []xmlField     `xml:"fields>field"`
}

type xmlSection struct {
	Members []xmlMember `xml:",any"`
}

type xmlMember struct {
	XMLName  xml.Name
	Name     string      `xml:"name,attr"`
	Required string      `xml:"required,attr"`
	Members  []xmlMember `xml:",any"`
}

type xmlMessage struct {
	Name    string      `xml:"name,attr"`
	MsgType string      `xml:"msgtype,attr"`
	MsgCat  string      `xml:"msgcat,attr"`
	Members []xmlMember `xml:",any"`
}

type xmlComponent struct {
	Name    string      `xml:"name,attr"`
	Members []xmlMember `xml:",any"`
}

type xmlField struct {
	Number int        `xml:"number,attr"`
	Name   string     `xml:"name,attr"`
	Type   string     `xml:"type,attr"`
	Values []xmlValue `xml:"value"`
}

type xmlValue struct {
	Enum        string `xml:"enum,attr"`
	Description string `xml:"description,attr"`
}

// Default returns the embedded FIX.4.4 dictionary.
func Default(opts ...Option) (*Dictionary, error) {
	raw, err := builtin.ReadFile("data/FIX44.xml")
	if err != nil {
		return nil, err
	}
	return Load(bytes.NewReader(raw), opts...)
}

// LoadFile reads a QuickFIX style XML dictionary from disk.
func LoadFile(path string, opts ...Option) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dictionary: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, opts...)
}

// Load parses a QuickFIX style XML dictionary. Components are expanded in place.
func Load(r io.Reader, opts ...Option) (*Dictionary, error) {
	var doc xmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("dictionary: decode: %w", err)
	}
	if doc.Major == "" || doc.Minor == "" {
		return nil, fmt.Errorf("dictionary: missing major/minor version")
	}

	kind := doc.Type
	if kind == "" {
		kind = "FIX"
	}
	d := &Dictionary{
		BeginString: fmt.Sprintf("%s.%s.%s", kind, doc.Major, doc.Minor),
		Fields:      make(map[fix.Tag]*FieldDef, len(doc.Fields)),
		Messages:    make(map[string]*MessageDef, len(doc.Messages)),
		byName:      make(map[string]*FieldDef, len(doc.Fields)),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, xf := range doc.Fields {
		if xf.Number <= 0 || xf.Name == "" {
			return nil, fmt.Errorf("dictionary: invalid field %q number %d", xf.Name, xf.Number)
		}
		def := &FieldDef{Tag: fix.Tag(xf.Number), Name: xf.Name, Type: xf.Type}
		if len(xf.Values) > 0 {
			def.Enums = make(map[string]string, len(xf.Values))
			for _, v := range xf.Values {
				def.Enums[v.Enum] = v.Description
			}
		}
		d.Fields[def.Tag] = def
		d.byName[def.Name] = def
	}

	b := &builder{dict: d, components: make(map[string]xmlComponent, len(doc.Components))}
	for _, c := range doc.Components {
		b.components[c.Name] = c
	}

	header, err := b.expand(doc.Header.Members, true, 0)
	if err != nil {
		return nil, fmt.Errorf("dictionary: header: %w", err)
	}
	d.Header = newLayout(header)

	trailer, err := b.expand(doc.Trailer.Members, true, 0)
	if err != nil {
		return nil, fmt.Errorf("dictionary: trailer: %w", err)
	}
	d.Trailer = newLayout(trailer)

	for _, xm := range doc.Messages {
		members, err := b.expand(xm.Members, true, 0)
		if err != nil {
			return nil, fmt.Errorf("dictionary: message %s: %w", xm.Name, err)
		}
		d.Messages[xm.MsgType] = &MessageDef{
			Layout:  newLayout(members),
			Name:    xm.Name,
			MsgType: xm.MsgType,
			Admin:   xm.MsgCat == "admin",
		}
	}
	return d, nil
}

type builder struct {
	dict       *Dictionary
	components map[string]xmlComponent
}

// expand flattens components. Members of an optional component are never required.
func (b *builder) expand(xms []xmlMember, parentRequired bool, depth int) ([]Member, error) {
	if depth > maxComponentDepth {
		return nil, fmt.Errorf("components nested deeper than %d", maxComponentDepth)
	}
	var out []Member
	for _, xm := range xms {
		required := parentRequired && xm.Required == "Y"
		switch xm.XMLName.Local {
		case "field":
			def, ok := b.dict.byName[xm.Name]
			if !ok {
				return nil, fmt.Errorf("unknown field %q", xm.Name)
			}
			out = append(out, Member{Tag: def.Tag, Required: required})
		case "group":
			def, ok := b.dict.byName[xm.Name]
			if !ok {
				return nil, fmt.Errorf("unknown group count field %q", xm.Name)
			}
			members, err := b.expand(xm.Members, true, depth+1)
			if err != nil {
				return nil, err
			}
			if len(members) == 0 {
				return nil, fmt.Errorf("group %q has no members", xm.Name)
			}
			out = append(out, Member{
				Tag:      def.Tag,
				Required: required,
				Group: &GroupDef{
					Layout:    newLayout(members),
					CountTag:  def.Tag,
					Delimiter: members[0].Tag,
				},
			})
		case "component":
			c, ok := b.components[xm.Name]
			if !ok {
				return nil, fmt.Errorf("unknown component %q", xm.Name)
			}
			members, err := b.expand(c.Members, required, depth+1)
			if err != nil {
				return nil, err
			}
			out = append(out, members...)
		default:
			return nil, fmt.Errorf("unexpected element <%s>", xm.XMLName.Local)
		}
	}
	return out, nil
}
