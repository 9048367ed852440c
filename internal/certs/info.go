package certs

import (
	"crypto/x509"
	"time"
)

// Info describes a leaf certificate
type Info struct {
	Host      string    `json:"host" yaml:"host"`
	Subject   string    `json:"subject" yaml:"subject"`
	Issuer    string    `json:"issuer" yaml:"issuer"`
	DNSNames  []string  `json:"dns_names" yaml:"dns_names"`
	NotBefore time.Time `json:"not_before" yaml:"not_before"`
	NotAfter  time.Time `json:"not_after" yaml:"not_after"`
}

func infoFrom(host string, cert *x509.Certificate) *Info {
	return &Info{
		Host:      host,
		Subject:   cert.Subject.CommonName,
		Issuer:    cert.Issuer.CommonName,
		DNSNames:  cert.DNSNames,
		NotBefore: cert.NotBefore,
		NotAfter:  cert.NotAfter,
	}
}
