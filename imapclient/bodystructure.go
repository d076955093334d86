package imapclient

import (
	"strings"

	"github.com/emersion/go-imap-engine"
)

// readBody reads the items of a body list. A body starting with a nested list
// is a multipart body.
func readBody(dec *tokenDecoder) (imap.BodyStructure, bool) {
	tok, ok := dec.Peek()
	if !ok {
		return nil, dec.errorf("empty body")
	}

	if tok.IsList() {
		dec.name = "body-type-mpart"
		bs, ok := readBodyTypeMpart(dec)
		return bs, ok
	}

	var typ string
	if !dec.ExpectString(&typ) {
		return nil, false
	}
	dec.name = "body-type-1part"
	return readBodyType1part(dec, typ)
}

func readBodyType1part(dec *tokenDecoder, typ string) (imap.BodyStructure, bool) {
	fields := imap.BodyStructureFields{Type: typ}
	if !dec.ExpectString(&fields.Subtype) {
		return nil, false
	}

	var ok bool
	fields.Params, ok = readBodyFldParam(dec)
	if !ok {
		return nil, false
	}
	decodeParam(fields.Params, "name")

	var description string
	ok = dec.ExpectNString(&fields.ID) &&
		dec.ExpectNString(&description) &&
		dec.ExpectString(&fields.Encoding) &&
		dec.ExpectNumber(&fields.Size)
	if !ok {
		return nil, false
	}
	fields.Description = decodeText(description)

	if strings.EqualFold(typ, "message") && (strings.EqualFold(fields.Subtype, "rfc822") || strings.EqualFold(fields.Subtype, "global")) {
		return readBodyTypeMsg(dec, fields)
	}

	bs := &imap.BodyStructureSinglePart{BodyStructureFields: fields}
	if strings.EqualFold(typ, "text") {
		var text imap.BodyStructureText
		if !dec.ExpectNumber64(&text.NumLines) {
			return nil, false
		}
		bs.Text = &text
	}

	if dec.More() {
		bs.Ext, ok = readBodyExt1part(dec)
		if !ok {
			return nil, false
		}
	}
	return bs, true
}

func readBodyTypeMsg(dec *tokenDecoder, fields imap.BodyStructureFields) (imap.BodyStructure, bool) {
	bs := &imap.BodyStructureMessageRFC822{BodyStructureFields: fields}

	envList, ok := dec.ExpectList("envelope")
	if !ok {
		return nil, false
	}
	if bs.Envelope, ok = readEnvelope(envList); !ok {
		return nil, dec.ExpectChild(envList)
	}

	bodyList, ok := dec.ExpectList("body")
	if !ok {
		return nil, false
	}
	if bs.Body, ok = readBody(bodyList); !ok {
		return nil, dec.ExpectChild(bodyList)
	}

	if !dec.ExpectNumber64(&bs.NumLines) {
		return nil, false
	}

	if dec.More() {
		bs.Ext, ok = readBodyExt1part(dec)
		if !ok {
			return nil, false
		}
	}
	return bs, true
}

func readBodyExt1part(dec *tokenDecoder) (*imap.BodyStructureSinglePartExt, bool) {
	var ext imap.BodyStructureSinglePartExt
	if !dec.ExpectNString(&ext.MD5) {
		return nil, false
	}

	var ok bool
	if !dec.More() {
		return &ext, true
	}
	if ext.Disposition, ok = readBodyFldDsp(dec); !ok {
		return nil, false
	}

	if !dec.More() {
		return &ext, true
	}
	if ext.Language, ok = readBodyFldLang(dec); !ok {
		return nil, false
	}

	if !dec.More() {
		return &ext, true
	}
	if !dec.ExpectNString(&ext.Location) {
		return nil, false
	}

	skipBodyExtension(dec)
	return &ext, true
}

func readBodyTypeMpart(dec *tokenDecoder) (imap.BodyStructure, bool) {
	var bs imap.BodyStructureMultiPart
	for {
		l, ok := dec.List("body")
		if !ok {
			break
		}
		child, ok := readBody(l)
		if !ok {
			return nil, dec.ExpectChild(l)
		}
		bs.Children = append(bs.Children, child)
	}

	if !dec.ExpectString(&bs.Subtype) {
		return nil, false
	}

	if dec.More() {
		var ok bool
		bs.Ext, ok = readBodyExtMpart(dec)
		if !ok {
			return nil, false
		}
	}
	return &bs, true
}

func readBodyExtMpart(dec *tokenDecoder) (*imap.BodyStructureMultiPartExt, bool) {
	var (
		ext imap.BodyStructureMultiPartExt
		ok  bool
	)
	if ext.Params, ok = readBodyFldParam(dec); !ok {
		return nil, false
	}

	if !dec.More() {
		return &ext, true
	}
	if ext.Disposition, ok = readBodyFldDsp(dec); !ok {
		return nil, false
	}

	if !dec.More() {
		return &ext, true
	}
	if ext.Language, ok = readBodyFldLang(dec); !ok {
		return nil, false
	}

	if !dec.More() {
		return &ext, true
	}
	if !dec.ExpectNString(&ext.Location) {
		return nil, false
	}

	skipBodyExtension(dec)
	return &ext, true
}

// skipBodyExtension discards body-extension items defined by future
// extensions.
func skipBodyExtension(dec *tokenDecoder) {
	for dec.More() {
		dec.Skip()
	}
}

func readBodyFldDsp(dec *tokenDecoder) (*imap.BodyStructureDisposition, bool) {
	l, ok := dec.ExpectNList("body-fld-dsp")
	if !ok || l == nil {
		return nil, ok
	}

	var disp imap.BodyStructureDisposition
	if !l.ExpectString(&disp.Value) {
		return nil, dec.ExpectChild(l)
	}
	if disp.Params, ok = readBodyFldParam(l); !ok || !l.ExpectEnd() {
		return nil, dec.ExpectChild(l)
	}
	decodeParam(disp.Params, "filename")
	return &disp, true
}

// readBodyFldParam reads a list of key-value pairs, or NIL. The order of the
// parameters is preserved.
func readBodyFldParam(dec *tokenDecoder) (imap.Params, bool) {
	l, ok := dec.ExpectNList("body-fld-param")
	if !ok || l == nil {
		return nil, ok
	}

	var params imap.Params
	for l.More() {
		var p imap.Param
		if !l.ExpectString(&p.Key) {
			return nil, dec.ExpectChild(l)
		}
		if !l.ExpectString(&p.Value) {
			return nil, dec.ExpectChild(l)
		}
		params = append(params, p)
	}
	return params, true
}

// readBodyFldLang reads a single language tag or a list of tags.
func readBodyFldLang(dec *tokenDecoder) ([]string, bool) {
	if l, ok := dec.List("body-fld-lang"); ok {
		var langs []string
		for l.More() {
			var lang string
			if !l.ExpectString(&lang) {
				return nil, dec.ExpectChild(l)
			}
			langs = append(langs, lang)
		}
		return langs, true
	}

	var lang string
	if !dec.ExpectNString(&lang) {
		return nil, false
	}
	if lang == "" {
		return nil, true
	}
	return []string{lang}, true
}

func decodeParam(params imap.Params, key string) {
	for i := range params {
		if strings.EqualFold(params[i].Key, key) {
			params[i].Value = decodeText(params[i].Value)
		}
	}
}
