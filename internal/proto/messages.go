package proto

// Empty carries no fields. It is the request of Ping, CreateMint and GetVault.
type Empty struct{}

func (m *Empty) MarshalWire() ([]byte, error) { return nil, nil }

func (m *Empty) UnmarshalWire(b []byte) error {
	return decode(b, func(*field) error { return nil })
}

// PingResponse: 1 status.
type PingResponse struct {
	Status string
}

func (m *PingResponse) MarshalWire() ([]byte, error) {
	var e encoder
	e.string(1, m.Status)
	return e.b, nil
}

func (m *PingResponse) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		if f.num == 1 {
			m.Status, err = f.string()
		}
		return err
	})
}

// LoginRequest: 1 identity, 2 timestamp, 3 signature.
type LoginRequest struct {
	Identity  []byte
	Timestamp int64
	Signature []byte
}

func (m *LoginRequest) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Identity)
	e.int64(2, m.Timestamp)
	e.bytes(3, m.Signature)
	return e.b, nil
}

func (m *LoginRequest) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Identity, err = f.bytes()
		case 2:
			m.Timestamp, err = f.int64()
		case 3:
			m.Signature, err = f.bytes()
		}
		return err
	})
}

// RefreshTokenRequest: 1 refresh_token.
type RefreshTokenRequest struct {
	RefreshToken string
}

func (m *RefreshTokenRequest) MarshalWire() ([]byte, error) {
	var e encoder
	e.string(1, m.RefreshToken)
	return e.b, nil
}

func (m *RefreshTokenRequest) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		if f.num == 1 {
			m.RefreshToken, err = f.string()
		}
		return err
	})
}

// TokenResponse: 1 access_token, 2 refresh_token. Returned by Login and
// RefreshToken.
type TokenResponse struct {
	AccessToken  string
	RefreshToken string
}

func (m *TokenResponse) MarshalWire() ([]byte, error) {
	var e encoder
	e.string(1, m.AccessToken)
	e.string(2, m.RefreshToken)
	return e.b, nil
}

func (m *TokenResponse) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.AccessToken, err = f.string()
		case 2:
			m.RefreshToken, err = f.string()
		}
		return err
	})
}

// Mint: 1 address, 2 authority, 3 supply.
type Mint struct {
	Address   []byte
	Authority []byte
	Supply    uint64
}

func (m *Mint) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Address)
	e.bytes(2, m.Authority)
	e.uint64(3, m.Supply)
	return e.b, nil
}

func (m *Mint) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Address, err = f.bytes()
		case 2:
			m.Authority, err = f.bytes()
		case 3:
			m.Supply, err = f.uint64()
		}
		return err
	})
}

// Account: 1 address, 2 mint, 3 authority, 4 balance.
type Account struct {
	Address   []byte
	Mint      []byte
	Authority []byte
	Balance   uint64
}

func (m *Account) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Address)
	e.bytes(2, m.Mint)
	e.bytes(3, m.Authority)
	e.uint64(4, m.Balance)
	return e.b, nil
}

func (m *Account) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Address, err = f.bytes()
		case 2:
			m.Mint, err = f.bytes()
		case 3:
			m.Authority, err = f.bytes()
		case 4:
			m.Balance, err = f.uint64()
		}
		return err
	})
}

// MintRef: 1 mint. Request of OpenAccount and Initialize.
type MintRef struct {
	Mint []byte
}

func (m *MintRef) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Mint)
	return e.b, nil
}

func (m *MintRef) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		if f.num == 1 {
			m.Mint, err = f.bytes()
		}
		return err
	})
}

// MintToRequest: 1 mint, 2 account, 3 amount.
type MintToRequest struct {
	Mint    []byte
	Account []byte
	Amount  uint64
}

func (m *MintToRequest) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Mint)
	e.bytes(2, m.Account)
	e.uint64(3, m.Amount)
	return e.b, nil
}

func (m *MintToRequest) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Mint, err = f.bytes()
		case 2:
			m.Account, err = f.bytes()
		case 3:
			m.Amount, err = f.uint64()
		}
		return err
	})
}

// AccountRef: 1 address.
type AccountRef struct {
	Address []byte
}

func (m *AccountRef) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Address)
	return e.b, nil
}

func (m *AccountRef) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		if f.num == 1 {
			m.Address, err = f.bytes()
		}
		return err
	})
}

// Vault: 1 address, 2 authority, 3 mint, 4 amount, 5 start_time, 6 end_time.
type Vault struct {
	Address   []byte
	Authority []byte
	Mint      []byte
	Amount    uint64
	StartTime uint64
	EndTime   uint64
}

func (m *Vault) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Address)
	e.bytes(2, m.Authority)
	e.bytes(3, m.Mint)
	e.uint64(4, m.Amount)
	e.uint64(5, m.StartTime)
	e.uint64(6, m.EndTime)
	return e.b, nil
}

func (m *Vault) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Address, err = f.bytes()
		case 2:
			m.Authority, err = f.bytes()
		case 3:
			m.Mint, err = f.bytes()
		case 4:
			m.Amount, err = f.uint64()
		case 5:
			m.StartTime, err = f.uint64()
		case 6:
			m.EndTime, err = f.uint64()
		}
		return err
	})
}

// DepositRequest: 1 account, 2 amount, 3 period, 4 vault, 5 mint. Vault and
// mint are optional references checked against the derived record.
type DepositRequest struct {
	Account []byte
	Amount  uint64
	Period  uint64
	Vault   []byte
	Mint    []byte
}

func (m *DepositRequest) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Account)
	e.uint64(2, m.Amount)
	e.uint64(3, m.Period)
	e.bytes(4, m.Vault)
	e.bytes(5, m.Mint)
	return e.b, nil
}

func (m *DepositRequest) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Account, err = f.bytes()
		case 2:
			m.Amount, err = f.uint64()
		case 3:
			m.Period, err = f.uint64()
		case 4:
			m.Vault, err = f.bytes()
		case 5:
			m.Mint, err = f.bytes()
		}
		return err
	})
}

// WithdrawRequest: 1 account, 2 vault, 3 mint.
type WithdrawRequest struct {
	Account []byte
	Vault   []byte
	Mint    []byte
}

func (m *WithdrawRequest) MarshalWire() ([]byte, error) {
	var e encoder
	e.bytes(1, m.Account)
	e.bytes(2, m.Vault)
	e.bytes(3, m.Mint)
	return e.b, nil
}

func (m *WithdrawRequest) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.Account, err = f.bytes()
		case 2:
			m.Vault, err = f.bytes()
		case 3:
			m.Mint, err = f.bytes()
		}
		return err
	})
}

// ListReceiptsRequest: 1 limit.
type ListReceiptsRequest struct {
	Limit uint32
}

func (m *ListReceiptsRequest) MarshalWire() ([]byte, error) {
	var e encoder
	e.uint64(1, uint64(m.Limit))
	return e.b, nil
}

func (m *ListReceiptsRequest) UnmarshalWire(b []byte) error {
	return decode(b, func(f *field) error {
		if f.num != 1 {
			return nil
		}
		v, err := f.uint64()
		m.Limit = uint32(v)
		return err
	})
}

// Receipt: 1 id, 2 kind, 3 identity, 4 vault, 5 amount, 6 start_time,
// 7 end_time, 8 created_at (Unix nanoseconds).
type Receipt struct {
	ID        string
	Kind      string
	Identity  []byte
	Vault     []byte
	Amount    uint64
	StartTime uint64
	EndTime   uint64
	CreatedAt int64
}

func (m *Receipt) MarshalWire() ([]byte, error) {
	var e encoder
	e.string(1, m.ID)
	e.string(2, m.Kind)
	e.bytes(3, m.Identity)
	e.bytes(4, m.Vault)
	e.uint64(5, m.Amount)
	e.uint64(6, m.StartTime)
	e.uint64(7, m.EndTime)
	e.int64(8, m.CreatedAt)
	return e.b, nil
}

func (m *Receipt) UnmarshalWire(b []byte) (err error) {
	return decode(b, func(f *field) error {
		switch f.num {
		case 1:
			m.ID, err = f.string()
		case 2:
			m.Kind, err = f.string()
		case 3:
			m.Identity, err = f.bytes()
		case 4:
			m.Vault, err = f.bytes()
		case 5:
			m.Amount, err = f.uint64()
		case 6:
			m.StartTime, err = f.uint64()
		case 7:
			m.EndTime, err = f.uint64()
		case 8:
			m.CreatedAt, err = f.int64()
		}
		return err
	})
}

// ListReceiptsResponse: 1 receipts (repeated).
type ListReceiptsResponse struct {
	Receipts []*Receipt
}

func (m *ListReceiptsResponse) MarshalWire() ([]byte, error) {
	var e encoder
	for _, r := range m.Receipts {
		if err := e.message(1, r); err != nil {
			return nil, err
		}
	}
	return e.b, nil
}

func (m *ListReceiptsResponse) UnmarshalWire(b []byte) error {
	return decode(b, func(f *field) error {
		if f.num != 1 {
			return nil
		}
		r := &Receipt{}
		if err := f.message(r); err != nil {
			return err
		}
		m.Receipts = append(m.Receipts, r)
		return nil
	})
}
