package port

// Catalog is the fixed list of TCP ports probed on every scan.
var Catalog = []int{21, 22, 25, 80, 443, 3306, 8080, 8443}

// serviceMap maps catalog ports to their typical service names.
var serviceMap = map[int]string{
	21:   "FTP",
	22:   "SSH",
	25:   "SMTP",
	80:   "HTTP",
	443:  "HTTPS",
	3306: "MySQL",
	8080: "HTTP-Alt",
	8443: "HTTPS-Alt",
}

// IdentifyService returns the service name for a port, or "unknown".
func IdentifyService(port int) string {
	if svc, ok := serviceMap[port]; ok {
		return svc
	}
	return "unknown"
}

// Outcome is the internal classification of a connect attempt. Only open and
// closed reach the report; filtered is logged.
type Outcome int

const (
	OutcomeClosed Outcome = iota
	OutcomeOpen
	OutcomeFiltered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOpen:
		return "open"
	case OutcomeFiltered:
		return "filtered"
	default:
		return "closed"
	}
}
