package sexp

import (
	"reflect"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Marshaler lets a type choose its own s-expression form.
type Marshaler interface {
	MarshalSexp() (Sexp, error)
}

// Unmarshaler lets a type decode itself from a generic tree.
type Unmarshaler interface {
	UnmarshalSexp(Sexp) error
}

var (
	sexpType        = reflect.TypeOf(Sexp{})
	atomType        = reflect.TypeOf(Atom{})
	numberType      = reflect.TypeOf(Number{})
	marshalerType   = reflect.TypeOf((*Marshaler)(nil)).Elem()
	unmarshalerType = reflect.TypeOf((*Unmarshaler)(nil)).Elem()
)

// ============================================================
// Struct field layout
// ============================================================

type structField struct {
	name      string
	index     int
	omitEmpty bool
}

var fieldCache sync.Map // reflect.Type -> []structField

// typeFields lists the encodable fields of a struct type, honoring
// `sexp:"name"` tags, `-` skips, and the omitempty option.
func typeFields(t reflect.Type) []structField {
	if cached, ok := fieldCache.Load(t); ok {
		return cached.([]structField)
	}
	var fields []structField
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		var omitEmpty bool
		if tag, ok := f.Tag.Lookup("sexp"); ok {
			base, opts, _ := strings.Cut(tag, ",")
			if base == "-" && opts == "" {
				continue
			}
			if base != "" {
				name = base
			}
			for opts != "" {
				var opt string
				opt, opts, _ = strings.Cut(opts, ",")
				if opt == "omitempty" {
					omitEmpty = true
				}
			}
		}
		fields = append(fields, structField{name: name, index: i, omitEmpty: omitEmpty})
	}
	fieldCache.Store(t, fields)
	return fields
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

// ============================================================
// Encoding native Go values
// ============================================================

func encodeAny(e *Encoder, v any) error {
	if v == nil {
		return e.EncodeNil()
	}
	return encodeValue(e, reflect.ValueOf(v))
}

func encodeValue(e *Encoder, rv reflect.Value) error {
	t := rv.Type()
	if t.Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return e.EncodeNil()
		}
		s, err := rv.Interface().(Marshaler).MarshalSexp()
		if err != nil {
			return dataError("%s", err)
		}
		return e.EncodeSexp(s)
	}
	if rv.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return encodeValue(e, rv.Addr())
	}
	switch t {
	case sexpType:
		return e.EncodeSexp(rv.Interface().(Sexp))
	case atomType:
		return e.EncodeAtom(rv.Interface().(Atom))
	case numberType:
		return e.EncodeNumber(rv.Interface().(Number))
	}

	switch rv.Kind() {
	case reflect.Bool:
		return e.EncodeBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return e.EncodeInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return e.EncodeUint(rv.Uint())
	case reflect.Float32:
		return e.EncodeFloat32(float32(rv.Float()))
	case reflect.Float64:
		return e.EncodeFloat64(rv.Float())
	case reflect.String:
		return e.EncodeString(rv.String())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return e.EncodeNil()
		}
		return encodeValue(e, rv.Elem())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return e.EncodeBytes(rv.Bytes())
		}
		return encodeSeq(e, rv)
	case reflect.Array:
		return encodeSeq(e, rv)
	case reflect.Map:
		return encodeMap(e, rv)
	case reflect.Struct:
		return encodeStruct(e, rv)
	default:
		return dataError("cannot encode value of type %s", t)
	}
}

func encodeSeq(e *Encoder, rv reflect.Value) error {
	l, err := e.BeginList()
	if err != nil {
		return err
	}
	for i := 0; i < rv.Len(); i++ {
		if err := l.Next(); err != nil {
			return err
		}
		if err := encodeValue(e, rv.Index(i)); err != nil {
			return err
		}
	}
	return l.End()
}

// encodeMap writes entries in ascending key order so output is
// deterministic.
func encodeMap(e *Encoder, rv reflect.Value) error {
	keys := rv.MapKeys()
	rendered := make([]struct {
		text string
		key  reflect.Value
	}, 0, len(keys))
	for _, k := range keys {
		text, err := mapKeyText(k)
		if err != nil {
			return err
		}
		rendered = append(rendered, struct {
			text string
			key  reflect.Value
		}{text, k})
	}
	sort.Slice(rendered, func(i, j int) bool { return rendered[i].text < rendered[j].text })

	m, err := e.BeginAlist()
	if err != nil {
		return err
	}
	for _, rk := range rendered {
		if err := m.Key(rk.text); err != nil {
			return err
		}
		if err := encodeValue(e, rv.MapIndex(rk.key)); err != nil {
			return err
		}
		if err := m.EndEntry(); err != nil {
			return err
		}
	}
	return m.End()
}

func mapKeyText(k reflect.Value) (string, error) {
	switch k.Kind() {
	case reflect.String:
		return k.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), nil
	default:
		return "", keyMustBeAStringError()
	}
}

func encodeStruct(e *Encoder, rv reflect.Value) error {
	m, err := e.BeginAlist()
	if err != nil {
		return err
	}
	for _, f := range typeFields(rv.Type()) {
		fv := rv.Field(f.index)
		if f.omitEmpty && isEmptyValue(fv) {
			continue
		}
		if err := m.Key(f.name); err != nil {
			return err
		}
		if err := encodeValue(e, fv); err != nil {
			return err
		}
		if err := m.EndEntry(); err != nil {
			return err
		}
	}
	return m.End()
}

// ============================================================
// Decoding into native Go values
// ============================================================

func (d *Decoder) decodeAny(v any) error {
	switch t := v.(type) {
	case nil:
		return dataError("cannot decode into nil")
	case *Sexp:
		val, err := d.parseValue()
		if err != nil {
			return err
		}
		*t = val
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return dataError("cannot decode into non-pointer %T", v)
	}
	return decodeValue(d, rv.Elem())
}

func decodeValue(d *Decoder, rv reflect.Value) error {
	t := rv.Type()
	if rv.CanAddr() && reflect.PointerTo(t).Implements(unmarshalerType) {
		tree, err := d.parseValue()
		if err != nil {
			return err
		}
		if err := rv.Addr().Interface().(Unmarshaler).UnmarshalSexp(tree); err != nil {
			return dataError("%s", err)
		}
		return nil
	}
	switch t {
	case sexpType:
		tree, err := d.parseValue()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(tree))
		return nil
	case atomType:
		a, err := d.ReadAtom()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(a))
		return nil
	case numberType:
		n, err := d.ReadNumber()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(n))
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		b, err := d.ReadBool()
		if err != nil {
			return err
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		n, err := d.ReadNumber()
		if err != nil {
			return err
		}
		return assignNumber(rv, n)
	case reflect.String:
		s, err := d.ReadString()
		if err != nil {
			return err
		}
		rv.SetString(s)
		return nil
	case reflect.Pointer:
		present, err := d.ReadOption()
		if err != nil {
			return err
		}
		if !present {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(t.Elem()))
		}
		return decodeValue(d, rv.Elem())
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return dataError("cannot decode into non-empty interface %s", t)
		}
		tree, err := d.parseValue()
		if err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(tree))
		return nil
	case reflect.Slice:
		return decodeSlice(d, rv)
	case reflect.Array:
		seq, err := d.ReadSeq()
		if err != nil {
			return err
		}
		if err := decodeArrayElems(d, seq, rv); err != nil {
			return err
		}
		return seq.End()
	case reflect.Map:
		return decodeMap(d, rv)
	case reflect.Struct:
		return decodeStruct(d, rv)
	default:
		return dataError("cannot decode into type %s", t)
	}
}

func assignNumber(rv reflect.Value, n Number) error {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, ok := n.AsInt64()
		if !ok || rv.OverflowInt(i) {
			return dataError("number %s out of range for %s", n, rv.Type())
		}
		rv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, ok := n.AsUint64()
		if !ok || rv.OverflowUint(u) {
			return dataError("number %s out of range for %s", n, rv.Type())
		}
		rv.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, _ := n.AsFloat64()
		if rv.OverflowFloat(f) {
			return dataError("number %s out of range for %s", n, rv.Type())
		}
		rv.SetFloat(f)
	default:
		return dataError("expected numeric target, got %s", rv.Type())
	}
	return nil
}

func decodeSlice(d *Decoder, rv reflect.Value) error {
	seq, err := d.ReadSeq()
	if err != nil {
		return err
	}
	if err := decodeSliceElems(d, seq, rv); err != nil {
		return err
	}
	return seq.End()
}

func decodeSliceElems(d *Decoder, seq *SeqReader, rv reflect.Value) error {
	t := rv.Type()
	out := reflect.MakeSlice(t, 0, 0)
	elem := t.Elem()
	for {
		more, err := seq.More()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		ev := reflect.New(elem).Elem()
		if err := decodeValue(d, ev); err != nil {
			return err
		}
		out = reflect.Append(out, ev)
	}
	rv.Set(out)
	return nil
}

func decodeArrayElems(d *Decoder, seq *SeqReader, rv reflect.Value) error {
	i := 0
	for {
		more, err := seq.More()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if i >= rv.Len() {
			return dataError("list longer than array length %d", rv.Len())
		}
		if err := decodeValue(d, rv.Index(i)); err != nil {
			return err
		}
		i++
	}
	for ; i < rv.Len(); i++ {
		rv.Index(i).SetZero()
	}
	return nil
}

func decodeMap(d *Decoder, rv reflect.Value) error {
	t := rv.Type()
	m, err := d.ReadAlist()
	if err != nil {
		return err
	}
	out := reflect.MakeMap(t)
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		kv, err := mapKeyFromText(t.Key(), key)
		if err != nil {
			return err
		}
		vv := reflect.New(t.Elem()).Elem()
		if err := decodeEntryValue(d, m, vv); err != nil {
			return err
		}
		out.SetMapIndex(kv, vv)
	}
	rv.Set(out)
	return m.End()
}

func mapKeyFromText(t reflect.Type, text string) (reflect.Value, error) {
	kv := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		kv.SetString(text)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil || kv.OverflowInt(i) {
			return kv, dataError("key %q out of range for %s", text, t)
		}
		kv.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil || kv.OverflowUint(u) {
			return kv, dataError("key %q out of range for %s", text, t)
		}
		kv.SetUint(u)
	default:
		return kv, keyMustBeAStringError()
	}
	return kv, nil
}

// decodeEntryValue reads one entry's value in either form: dotted
// yields a single value, flat yields the trailing values as a sequence.
func decodeEntryValue(d *Decoder, m *AlistReader, rv reflect.Value) error {
	dotted, err := m.Dotted()
	if err != nil {
		return err
	}
	if dotted {
		if err := decodeValue(d, rv); err != nil {
			return err
		}
		return m.EndEntry()
	}
	seq := m.ValueSeq()
	switch rv.Kind() {
	case reflect.Slice:
		if err := decodeSliceElems(d, seq, rv); err != nil {
			return err
		}
	case reflect.Array:
		if err := decodeArrayElems(d, seq, rv); err != nil {
			return err
		}
	case reflect.Interface:
		if rv.Type().NumMethod() != 0 {
			return dataError("cannot decode into non-empty interface %s", rv.Type())
		}
		var elems []Sexp
		for {
			more, err := seq.More()
			if err != nil {
				return err
			}
			if !more {
				break
			}
			elem, err := d.parseValue()
			if err != nil {
				return err
			}
			elems = append(elems, elem)
		}
		rv.Set(reflect.ValueOf(List(elems...)))
	default:
		if rv.Type() == sexpType {
			var elems []Sexp
			for {
				more, err := seq.More()
				if err != nil {
					return err
				}
				if !more {
					break
				}
				elem, err := d.parseValue()
				if err != nil {
					return err
				}
				elems = append(elems, elem)
			}
			rv.Set(reflect.ValueOf(List(elems...)))
			break
		}
		return dataError("flat entry value needs a list target, got %s", rv.Type())
	}
	return m.EndEntry()
}

// skipEntryValue consumes an entry's value when no field wants it.
func skipEntryValue(d *Decoder, m *AlistReader) error {
	dotted, err := m.Dotted()
	if err != nil {
		return err
	}
	if dotted {
		if err := d.skipValue(); err != nil {
			return err
		}
		return m.EndEntry()
	}
	seq := m.ValueSeq()
	for {
		more, err := seq.More()
		if err != nil {
			return err
		}
		if !more {
			break
		}
		if err := d.skipValue(); err != nil {
			return err
		}
	}
	return m.EndEntry()
}

func decodeStruct(d *Decoder, rv reflect.Value) error {
	fields := typeFields(rv.Type())
	m, err := d.ReadAlist()
	if err != nil {
		return err
	}
	for {
		key, ok, err := m.NextKey()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		idx := -1
		for _, f := range fields {
			if f.name == key {
				idx = f.index
				break
			}
		}
		if idx < 0 {
			for _, f := range fields {
				if strings.EqualFold(f.name, key) {
					idx = f.index
					break
				}
			}
		}
		if idx < 0 {
			if err := skipEntryValue(d, m); err != nil {
				return err
			}
			continue
		}
		if err := decodeEntryValue(d, m, rv.Field(idx)); err != nil {
			return err
		}
	}
	return m.End()
}

// ============================================================
// Tree conversion
// ============================================================

// ToValue converts a native Go value to its generic tree form, the
// same shape Marshal would encode.
func ToValue(v any) (Sexp, error) {
	if v == nil {
		return Nil(), nil
	}
	return reflectToSexp(reflect.ValueOf(v))
}

func reflectToSexp(rv reflect.Value) (Sexp, error) {
	t := rv.Type()
	if t.Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Nil(), nil
		}
		s, err := rv.Interface().(Marshaler).MarshalSexp()
		if err != nil {
			return Sexp{}, dataError("%s", err)
		}
		return s, nil
	}
	if rv.CanAddr() && reflect.PointerTo(t).Implements(marshalerType) {
		return reflectToSexp(rv.Addr())
	}
	switch t {
	case sexpType:
		return rv.Interface().(Sexp), nil
	case atomType:
		return FromAtom(rv.Interface().(Atom)), nil
	case numberType:
		return Num(rv.Interface().(Number)), nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Str(rv.String()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Nil(), nil
		}
		return reflectToSexp(rv.Elem())
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			b := rv.Bytes()
			elems := make([]Sexp, len(b))
			for i, c := range b {
				elems[i] = Uint(uint64(c))
			}
			return List(elems...), nil
		}
		fallthrough
	case reflect.Array:
		elems := make([]Sexp, rv.Len())
		for i := range elems {
			ev, err := reflectToSexp(rv.Index(i))
			if err != nil {
				return Sexp{}, err
			}
			elems[i] = ev
		}
		return List(elems...), nil
	case reflect.Map:
		keys := rv.MapKeys()
		rendered := make([]struct {
			text string
			key  reflect.Value
		}, 0, len(keys))
		for _, k := range keys {
			text, err := mapKeyText(k)
			if err != nil {
				return Sexp{}, err
			}
			rendered = append(rendered, struct {
				text string
				key  reflect.Value
			}{text, k})
		}
		sort.Slice(rendered, func(i, j int) bool { return rendered[i].text < rendered[j].text })
		entries := make([]Sexp, 0, len(rendered))
		for _, rk := range rendered {
			vv, err := reflectToSexp(rv.MapIndex(rk.key))
			if err != nil {
				return Sexp{}, err
			}
			entries = append(entries, Pair(Str(rk.text), vv))
		}
		return List(entries...), nil
	case reflect.Struct:
		var entries []Sexp
		for _, f := range typeFields(t) {
			fv := rv.Field(f.index)
			if f.omitEmpty && isEmptyValue(fv) {
				continue
			}
			vv, err := reflectToSexp(fv)
			if err != nil {
				return Sexp{}, err
			}
			entries = append(entries, Pair(Str(f.name), vv))
		}
		return List(entries...), nil
	default:
		return Sexp{}, dataError("cannot encode value of type %s", t)
	}
}

// entryList views a tree as a sequence of alist entries. A bare pair
// `(k . v)` counts as a one-entry aggregate.
func entryList(v Sexp) ([]Sexp, error) {
	if v.kind == KindImproperList {
		if _, _, ok := v.Entry(); ok {
			return []Sexp{v}, nil
		}
	}
	elems, err := v.AsList()
	if err != nil {
		return nil, dataError("%s", err)
	}
	return elems, nil
}

// FromValue decodes a generic tree into a native Go value, the same
// binding Unmarshal performs.
func FromValue(v Sexp, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return dataError("cannot decode into non-pointer %T", target)
	}
	return sexpToReflect(v, rv.Elem())
}

func sexpToReflect(v Sexp, rv reflect.Value) error {
	t := rv.Type()
	if rv.CanAddr() && reflect.PointerTo(t).Implements(unmarshalerType) {
		if err := rv.Addr().Interface().(Unmarshaler).UnmarshalSexp(v); err != nil {
			return dataError("%s", err)
		}
		return nil
	}
	switch t {
	case sexpType:
		rv.Set(reflect.ValueOf(v))
		return nil
	case atomType:
		a, err := v.AsAtom()
		if err != nil {
			return dataError("%s", err)
		}
		rv.Set(reflect.ValueOf(a))
		return nil
	case numberType:
		n, err := v.AsNumber()
		if err != nil {
			return dataError("%s", err)
		}
		rv.Set(reflect.ValueOf(n))
		return nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		b, err := v.AsBool()
		if err != nil {
			return dataError("%s", err)
		}
		rv.SetBool(b)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		n, err := v.AsNumber()
		if err != nil {
			return dataError("%s", err)
		}
		return assignNumber(rv, n)
	case reflect.String:
		s, err := v.AsText()
		if err != nil {
			return dataError("%s", err)
		}
		rv.SetString(s)
		return nil
	case reflect.Pointer:
		if v.IsNil() {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(t.Elem()))
		}
		return sexpToReflect(v, rv.Elem())
	case reflect.Interface:
		if t.NumMethod() != 0 {
			return dataError("cannot decode into non-empty interface %s", t)
		}
		rv.Set(reflect.ValueOf(v))
		return nil
	case reflect.Slice:
		elems, err := v.AsList()
		if err != nil {
			return dataError("%s", err)
		}
		out := reflect.MakeSlice(t, len(elems), len(elems))
		for i, elem := range elems {
			if err := sexpToReflect(elem, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil
	case reflect.Array:
		elems, err := v.AsList()
		if err != nil {
			return dataError("%s", err)
		}
		if len(elems) > rv.Len() {
			return dataError("list longer than array length %d", rv.Len())
		}
		for i, elem := range elems {
			if err := sexpToReflect(elem, rv.Index(i)); err != nil {
				return err
			}
		}
		for i := len(elems); i < rv.Len(); i++ {
			rv.Index(i).SetZero()
		}
		return nil
	case reflect.Map:
		entries, err := entryList(v)
		if err != nil {
			return err
		}
		out := reflect.MakeMap(t)
		for _, entry := range entries {
			key, value, ok := entry.Entry()
			if !ok {
				return dataError("expected alist entry, got %s", entry.Kind())
			}
			kv, err := mapKeyFromText(t.Key(), key.text)
			if err != nil {
				return err
			}
			vv := reflect.New(t.Elem()).Elem()
			if err := sexpToReflect(value, vv); err != nil {
				return err
			}
			out.SetMapIndex(kv, vv)
		}
		rv.Set(out)
		return nil
	case reflect.Struct:
		entries, err := entryList(v)
		if err != nil {
			return err
		}
		fields := typeFields(t)
		for _, entry := range entries {
			key, value, ok := entry.Entry()
			if !ok {
				return dataError("expected alist entry, got %s", entry.Kind())
			}
			idx := -1
			for _, f := range fields {
				if f.name == key.text {
					idx = f.index
					break
				}
			}
			if idx < 0 {
				for _, f := range fields {
					if strings.EqualFold(f.name, key.text) {
						idx = f.index
						break
					}
				}
			}
			if idx < 0 {
				continue
			}
			if err := sexpToReflect(value, rv.Field(idx)); err != nil {
				return err
			}
		}
		return nil
	default:
		return dataError("cannot decode into type %s", t)
	}
}
