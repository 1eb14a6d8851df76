package stellar

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

// TxReport is the machine-readable result for one transaction hash.
type TxReport struct {
	Hash            string `json:"hash"`
	Status          string `json:"status"`
	Ledger          int32  `json:"ledger,omitempty"`
	Error           string `json:"error,omitempty"`
	EnvelopeXdr     string `json:"envelope_xdr,omitempty"`
	ResultMetaXdr   string `json:"result_meta_xdr,omitempty"`
	EnvelopeBytes   int    `json:"envelope_bytes"`
	ResultMetaBytes int    `json:"result_meta_bytes"`
}

// Report is printed by stellar:tx when --json is set.
type Report struct {
	Network      string     `json:"network"`
	Transactions []TxReport `json:"transactions"`
}
