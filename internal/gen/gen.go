// Package gen writes DHCP and DNS zone include files from a tabular host
// description.
package gen

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ninebynine/netconfig/internal/hostdata"
	"github.com/ninebynine/netconfig/pkg/models"
)

// DefaultDomain is appended to host names in generated fixed-address lines.
const DefaultDomain = "atuin.ninebynine.org"

// Generate loads the host table at inputPath, echoing every named input row
// to out (repeated names included), and writes <base>.dhcpd.conf and
// <base>.zone.hosts next to the input. It returns the two output paths.
func Generate(out io.Writer, inputPath, domain string) (string, string, error) {
	hosts, err := hostdata.LoadVisit(inputPath, func(h models.Host) {
		fmt.Fprintf(out, "host: %-16s, IP %-16s, MAC %-18s # %s\n", h.Name, h.IPAddr, h.MACAddr, h.Descr)
	})
	if err != nil {
		return "", "", err
	}

	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	dhcpPath := base + ".dhcpd.conf"
	zonePath := base + ".zone.hosts"

	err = writeFile(dhcpPath, func(w io.Writer) error {
		return WriteDHCPConf(w, hosts, filepath.Base(dhcpPath), domain)
	})
	if err != nil {
		return "", "", err
	}
	err = writeFile(zonePath, func(w io.Writer) error {
		return WriteZoneHosts(w, hosts, filepath.Base(zonePath), domain)
	})
	if err != nil {
		return "", "", err
	}
	return dhcpPath, zonePath, nil
}

// WriteDHCPConf writes dhcpd host declarations for every record that has a
// MAC address. filename appears in the header comment only.
func WriteDHCPConf(w io.Writer, hosts []models.Host, filename, domain string) error {
	_, err := fmt.Fprintf(w, `# %s
#
# Copy this file to /etc/dhcp on the server system, and 
# include in /etc/dhcp/dhcpd.conf with this line:
#   include "/etc/dhcp/%s" ;
#
`, filename, filename)
	if err != nil {
		return err
	}
	for _, h := range hosts {
		if h.MACAddr == "" {
			continue
		}
		_, err = fmt.Fprintf(w, `host %s
    {   # %s
        hardware ethernet %s ;
        fixed-address     %s.%s ;
    }
`, h.Name, h.Descr, h.MACAddr, h.Name, domain)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteZoneHosts writes one A record line per host, MAC or not.
func WriteZoneHosts(w io.Writer, hosts []models.Host, filename, domain string) error {
	zoneDir := strings.SplitN(domain, ".", 2)[0]
	_, err := fmt.Fprintf(w, `; %s
;
; Copy this file to /etc/bind/%s on the server system, and 
; include in /etc/bind/%s/%s.zone with this line:
;   $INCLUDE %s
;
`, filename, zoneDir, zoneDir, domain, filename)
	if err != nil {
		return err
	}
	for _, h := range hosts {
		_, err = fmt.Fprintf(w, "%-16s IN A %-16s   ; %s\n", h.Name, h.IPAddr, h.Descr)
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %v", path, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %v", path, err)
	}
	return f.Close()
}
