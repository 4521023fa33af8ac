package market

import (
	"encoding/binary"
	"fmt"
	"math"
)

const marketplaceSize = 21 // authority(20) + royalty_percentage(1)

// SerializeMarketplace encodes a Marketplace to binary format.
func SerializeMarketplace(m *Marketplace) []byte {
	buf := make([]byte, marketplaceSize)
	copy(buf[0:20], m.Authority[:])
	buf[20] = m.RoyaltyPercentage
	return buf
}

// DeserializeMarketplace decodes binary data into a Marketplace.
func DeserializeMarketplace(data []byte) (*Marketplace, error) {
	if len(data) != marketplaceSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidMarketplaceData, marketplaceSize, len(data))
	}
	m := &Marketplace{RoyaltyPercentage: data[20]}
	copy(m.Authority[:], data[0:20])
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMarketplaceData, err)
	}
	return m, nil
}

// SerializeService encodes a ServiceNFT. Strings are written as
// length(2) || bytes in field order, followed by
// soulbound(1) || duration(8) || price(8).
//
//	name | description | symbol | uri | terms_of_service | soulbound | duration | price
func SerializeService(s *ServiceNFT) ([]byte, error) {
	fields := []string{s.Name, s.Description, s.Symbol, s.URI, s.TermsOfService}
	size := 1 + 8 + 8
	for _, f := range fields {
		if len(f) > math.MaxUint16 {
			return nil, fmt.Errorf("%w: %d bytes", ErrFieldTooLong, len(f))
		}
		size += 2 + len(f)
	}

	buf := make([]byte, size)
	offset := 0
	for _, f := range fields {
		binary.BigEndian.PutUint16(buf[offset:offset+2], uint16(len(f)))
		offset += 2
		offset += copy(buf[offset:], f)
	}
	if s.Soulbound {
		buf[offset] = 1
	}
	offset++
	binary.BigEndian.PutUint64(buf[offset:offset+8], s.Duration)
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:offset+8], s.Price)
	return buf, nil
}

// DeserializeService decodes binary data into a ServiceNFT.
func DeserializeService(data []byte) (*ServiceNFT, error) {
	offset := 0
	readString := func() (string, error) {
		if len(data) < offset+2 {
			return "", fmt.Errorf("%w: truncated length at offset %d", ErrInvalidServiceData, offset)
		}
		n := int(binary.BigEndian.Uint16(data[offset : offset+2]))
		offset += 2
		if len(data) < offset+n {
			return "", fmt.Errorf("%w: truncated string at offset %d", ErrInvalidServiceData, offset)
		}
		s := string(data[offset : offset+n])
		offset += n
		return s, nil
	}

	s := &ServiceNFT{}
	for _, dst := range []*string{&s.Name, &s.Description, &s.Symbol, &s.URI, &s.TermsOfService} {
		v, err := readString()
		if err != nil {
			return nil, err
		}
		*dst = v
	}

	if len(data) != offset+17 {
		return nil, fmt.Errorf("%w: expected %d trailing bytes, got %d", ErrInvalidServiceData, 17, len(data)-offset)
	}
	switch data[offset] {
	case 0:
	case 1:
		s.Soulbound = true
	default:
		return nil, fmt.Errorf("%w: soulbound flag %d", ErrInvalidServiceData, data[offset])
	}
	offset++
	s.Duration = binary.BigEndian.Uint64(data[offset : offset+8])
	offset += 8
	s.Price = binary.BigEndian.Uint64(data[offset : offset+8])
	return s, nil
}
