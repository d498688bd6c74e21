package derive

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func seedOf(b byte) SeedKey {
	var s SeedKey
	for i := range s {
		s[i] = b
	}
	return s
}

func TestDeriveDeterministic(t *testing.T) {
	seed := seedOf(0x01)
	a1, err := Derive(RoleVault, seed)
	require.NoError(t, err)
	a2, err := Derive(RoleVault, seed)
	require.NoError(t, err)
	require.Equal(t, a1, a2)
	require.False(t, a1.IsZero())
}

// 同一 seed key 下三个角色地址必须两两不同
func TestRolesNeverCollide(t *testing.T) {
	seed := seedOf(0x02)
	seen := make(map[Address]Role)
	for _, role := range []Role{RoleVesting, RoleVault, RoleDistribute} {
		a, err := Derive(role, seed)
		require.NoError(t, err)
		prev, dup := seen[a]
		require.False(t, dup, "role %s collides with %s", role, prev)
		seen[a] = role
	}
}

// 不同 seed key 的归属计划彼此隔离
func TestSeedKeysNeverCollide(t *testing.T) {
	seen := make(map[Address]bool)
	for b := byte(0); b < 32; b++ {
		for _, role := range []Role{RoleVesting, RoleVault, RoleDistribute} {
			a := MustDerive(role, seedOf(b))
			require.False(t, seen[a], "address collision at seed %d role %s", b, role)
			seen[a] = true
		}
	}
}

func TestCheckRejectsForeignAccount(t *testing.T) {
	seedA := seedOf(0x0a)
	seedB := seedOf(0x0b)

	vaultB := MustDerive(RoleVault, seedB)

	// 用归属计划 B 的金库地址冒充 A 的金库
	err := Check(RoleVault, seedA, vaultB)
	require.ErrorIs(t, err, ErrInvalidAccountDerivation)

	// 角色错位同样拒绝
	distA := MustDerive(RoleDistribute, seedA)
	err = Check(RoleVault, seedA, distA)
	require.ErrorIs(t, err, ErrInvalidAccountDerivation)

	// 正确地址通过
	vaultA := MustDerive(RoleVault, seedA)
	require.NoError(t, Check(RoleVault, seedA, vaultA))
}

func TestCheckHex(t *testing.T) {
	seed := seedOf(0x0c)
	vault := MustDerive(RoleVault, seed)

	got, err := CheckHex(RoleVault, seed, vault.Hex())
	require.NoError(t, err)
	require.Equal(t, vault, got)

	_, err = CheckHex(RoleVault, seed, "0xzz")
	require.ErrorIs(t, err, ErrInvalidAccountDerivation)
}

func TestDeriveRejectsUnknownRole(t *testing.T) {
	_, err := Derive(Role("TREASURY"), seedOf(0x0d))
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestParseAddressRoundTrip(t *testing.T) {
	a := MustDerive(RoleVesting, seedOf(0x0e))
	parsed, err := ParseAddress(a.Hex())
	require.NoError(t, err)
	require.Equal(t, a, parsed)

	_, err = ParseAddress("0x1234")
	require.Error(t, err)
}

func TestProgramIDStable(t *testing.T) {
	require.Equal(t, ProgramID(), ProgramID())
	require.False(t, ProgramID().IsZero())
}
