package core

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the records kept in the catalog cache.
var (
	StringsMUS      = stringsMUS{}
	CatalogEntryMUS = catalogEntryMUS{}
	CatalogMUS      = catalogMUS{}
	ResourceMUS     = resourceMUS{}
	ResourcesMUS    = resourcesMUS{}
)

// readLength decodes a slice length prefix and rejects values that cannot
// possibly fit in the remaining bytes.
func readLength(bs []byte) (length int, n int, err error) {
	length, n, err = varint.Int.Unmarshal(bs)
	if err != nil {
		return
	}
	if length < 0 || length > len(bs)-n {
		err = fmt.Errorf("%w: length %d", ErrCorruptData, length)
	}
	return
}

type stringsMUS struct{}

func (s stringsMUS) Marshal(v []string, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, str := range v {
		n += ord.String.Marshal(str, bs[n:])
	}
	return
}

func (s stringsMUS) Unmarshal(bs []byte) (v []string, n int, err error) {
	length, n, err := readLength(bs)
	if err != nil {
		return
	}
	v = make([]string, length)
	var n1 int
	for i := range v {
		v[i], n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s stringsMUS) Size(v []string) (size int) {
	size = varint.Int.Size(len(v))
	for _, str := range v {
		size += ord.String.Size(str)
	}
	return
}

type catalogEntryMUS struct{}

func (s catalogEntryMUS) Marshal(v CatalogEntry, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.URL, bs[n:])
	n += ord.String.Marshal(v.Habitat, bs[n:])
	n += StringsMUS.Marshal(v.Types, bs[n:])
	return
}

func (s catalogEntryMUS) Unmarshal(bs []byte) (v CatalogEntry, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Habitat, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Types, n1, err = StringsMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s catalogEntryMUS) Size(v CatalogEntry) (size int) {
	size = ord.String.Size(v.Name)
	size += ord.String.Size(v.URL)
	size += ord.String.Size(v.Habitat)
	return size + StringsMUS.Size(v.Types)
}

type catalogMUS struct{}

func (s catalogMUS) Marshal(v []CatalogEntry, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, entry := range v {
		n += CatalogEntryMUS.Marshal(entry, bs[n:])
	}
	return
}

func (s catalogMUS) Unmarshal(bs []byte) (v []CatalogEntry, n int, err error) {
	length, n, err := readLength(bs)
	if err != nil {
		return
	}
	v = make([]CatalogEntry, length)
	var n1 int
	for i := range v {
		v[i], n1, err = CatalogEntryMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s catalogMUS) Size(v []CatalogEntry) (size int) {
	size = varint.Int.Size(len(v))
	for _, entry := range v {
		size += CatalogEntryMUS.Size(entry)
	}
	return
}

type resourceMUS struct{}

func (s resourceMUS) Marshal(v Resource, bs []byte) (n int) {
	n = ord.String.Marshal(v.Name, bs)
	n += ord.String.Marshal(v.URL, bs[n:])
	return
}

func (s resourceMUS) Unmarshal(bs []byte) (v Resource, n int, err error) {
	v.Name, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s resourceMUS) Size(v Resource) (size int) {
	return ord.String.Size(v.Name) + ord.String.Size(v.URL)
}

type resourcesMUS struct{}

func (s resourcesMUS) Marshal(v []Resource, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, r := range v {
		n += ResourceMUS.Marshal(r, bs[n:])
	}
	return
}

func (s resourcesMUS) Unmarshal(bs []byte) (v []Resource, n int, err error) {
	length, n, err := readLength(bs)
	if err != nil {
		return
	}
	v = make([]Resource, length)
	var n1 int
	for i := range v {
		v[i], n1, err = ResourceMUS.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}

func (s resourcesMUS) Size(v []Resource) (size int) {
	size = varint.Int.Size(len(v))
	for _, r := range v {
		size += ResourceMUS.Size(r)
	}
	return
}
