package enricher

import (
	"log"
	"net"

	"github.com/oschwald/geoip2-golang"

	"github.com/forgeservicelab/forge.combined-log-parser/accesslog"
)

// Annotation carries the optional lookups attached to a parsed record.
type Annotation struct {
	Class   string `json:"class"`
	Country string `json:"country"`
	ASN     string `json:"asn"`
}

// Enricher resolves GeoIP data for remote addresses. Database readers are
// optional; a missing database degrades to "Unknown" rather than failing.
type Enricher struct {
	cityDB *geoip2.Reader
	asnDB  *geoip2.Reader
}

func NewEnricher(cityDBPath, asnDBPath string) *Enricher {
	e := &Enricher{}

	if cityDBPath != "" {
		db, err := geoip2.Open(cityDBPath)
		if err != nil {
			log.Printf("enricher: city database unavailable: %v", err)
		} else {
			e.cityDB = db
		}
	}
	if asnDBPath != "" {
		db, err := geoip2.Open(asnDBPath)
		if err != nil {
			log.Printf("enricher: ASN database unavailable: %v", err)
		} else {
			e.asnDB = db
		}
	}

	return e
}

// Close should be called on shutdown.
func (e *Enricher) Close() {
	if e.cityDB != nil {
		e.cityDB.Close()
	}
	if e.asnDB != nil {
		e.asnDB.Close()
	}
}

// Annotate classifies the record's remote address and, when databases are
// loaded, resolves its country and AS organization.
func (e *Enricher) Annotate(rec *accesslog.LogRecord) Annotation {
	ann := Annotation{
		Class:   classify(rec),
		Country: "Unknown",
		ASN:     "Unknown",
	}
	if !rec.RemoteIP.IsValid() {
		return ann
	}

	ip := net.IP(rec.RemoteIP.AsSlice())

	if e.cityDB != nil {
		record, err := e.cityDB.Country(ip)
		if err == nil && record.Country.IsoCode != "" {
			ann.Country = record.Country.IsoCode
		}
	}
	if e.asnDB != nil {
		record, err := e.asnDB.ASN(ip)
		if err == nil && record.AutonomousSystemOrganization != "" {
			ann.ASN = record.AutonomousSystemOrganization
		}
	}

	return ann
}

// classify buckets the remote address as "loopback", "internal" or
// "external".
func classify(rec *accesslog.LogRecord) string {
	addr := rec.RemoteIP
	switch {
	case !addr.IsValid():
		return "unknown"
	case addr.IsLoopback():
		return "loopback"
	case addr.IsPrivate(), addr.IsLinkLocalUnicast():
		return "internal"
	default:
		return "external"
	}
}
