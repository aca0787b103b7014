package hdpath

// BIP44 defaults.
const (
	DefaultPurpose uint32 = 44
	DefaultCoin    uint32 = 0
	DefaultAccount uint32 = 0
	DefaultChange  uint32 = 0
)

// BIP44Fields are the editable components of a BIP44 base path.
type BIP44Fields struct {
	Purpose uint32 `json:"purpose" yaml:"purpose"`
	Coin    uint32 `json:"coin"    yaml:"coin"`
	Account uint32 `json:"account" yaml:"account"`
	Change  uint32 `json:"change"  yaml:"change"`
}

// DefaultBIP44 returns m/44'/0'/0'/0.
func DefaultBIP44() BIP44Fields {
	return BIP44Fields{
		Purpose: DefaultPurpose,
		Coin:    DefaultCoin,
		Account: DefaultAccount,
		Change:  DefaultChange,
	}
}

// Path builds purpose'/coin'/account'/change.
func (f BIP44Fields) Path() (Path, error) {
	return BIP44(f.Purpose, f.Coin, f.Account, f.Change)
}

// BIP44 builds the four-segment path m/purpose'/coin'/account'/change.
// All but change are hardened.
func BIP44(purpose, coin, account, change uint32) (Path, error) {
	path := make(Path, 0, 4)
	for _, f := range []struct {
		v        uint32
		hardened bool
	}{
		{purpose, true},
		{coin, true},
		{account, true},
		{change, false},
	} {
		seg, err := Child(uint64(f.v), f.hardened)
		if err != nil {
			return nil, err
		}
		path = append(path, seg)
	}
	return path, nil
}
