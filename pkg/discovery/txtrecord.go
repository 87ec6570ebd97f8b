package discovery

import (
	"fmt"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeServiceTXT creates the TXT records for a server.
func EncodeServiceTXT(info *ServiceInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyVersion] = info.Version
	txt[TXTKeyAPIPath] = info.APIPath
	if txt[TXTKeyAPIPath] == "" {
		txt[TXTKeyAPIPath] = DefaultAPIPath
	}

	if info.ServerID != "" {
		txt[TXTKeyServerID] = info.ServerID
	}

	return txt
}

// DecodeServiceTXT parses the TXT records of a server into s.
// The version and api records are required.
func DecodeServiceTXT(txt TXTRecordMap, s *Service) error {
	var ok bool

	s.Version, ok = txt[TXTKeyVersion]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}

	s.APIPath, ok = txt[TXTKeyAPIPath]
	if !ok {
		return fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyAPIPath)
	}

	s.ServerID = txt[TXTKeyServerID]
	return nil
}

// TXTRecordsToStrings converts a TXT record map to zeroconf's key=value form.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	return result
}

// StringsToTXTRecords parses key=value strings. Entries without '=' are
// treated as boolean attributes with an empty value.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, _ := strings.Cut(s, "=")
		if k == "" {
			continue
		}
		txt[k] = v
	}
	return txt
}

// ValidateInstanceName checks that name fits in a DNS label.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidInstanceName)
	}
	if len(name) > MaxInstanceNameLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidInstanceName, MaxInstanceNameLen)
	}
	return nil
}
