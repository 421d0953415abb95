package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileValidation(t *testing.T) {
	base := Descriptor{
		Key:           "test",
		BankName:      "Test Bank",
		DatePatterns:  []string{`\d{2}/\d{2}/\d{2}`},
		AmountColumns: 2,
		Reconcile:     ModeCorrective,
	}

	t.Run("valid descriptor compiles", func(t *testing.T) {
		d, err := Compile(base)
		require.NoError(t, err)
		assert.Equal(t, "test", d.Key)
	})

	t.Run("missing key", func(t *testing.T) {
		desc := base
		desc.Key = ""
		_, err := Compile(desc)
		assert.Error(t, err)
	})

	t.Run("amount columns out of range", func(t *testing.T) {
		desc := base
		desc.AmountColumns = 4
		_, err := Compile(desc)
		assert.ErrorContains(t, err, "amountColumns")
	})

	t.Run("unknown reconcile mode", func(t *testing.T) {
		desc := base
		desc.Reconcile = "guessing"
		_, err := Compile(desc)
		assert.ErrorContains(t, err, "reconcile mode")
	})

	t.Run("bad date pattern", func(t *testing.T) {
		desc := base
		desc.DatePatterns = []string{`(\d{2}`}
		_, err := Compile(desc)
		assert.Error(t, err)
	})
}

func TestDialectDateHelpers(t *testing.T) {
	d := MustCompile(hdfcDescriptor)

	assert.Equal(t, "01/03/25", d.DateAt("01/03/25 UPI-JOHN"))
	assert.Equal(t, "", d.DateAt("UPI-JOHN 01/03/25"))
	assert.True(t, d.IsDateOnly("01/03/25"))
	assert.False(t, d.IsDateOnly("01/03/25 UPI"))
	assert.True(t, d.ContainsDate("ref 01/03/25 tail"))
	assert.False(t, d.ContainsDate("1234567890"))
	assert.Equal(t, "01/03/25", d.FindDate("ref 01/03/25 tail"))
	assert.Equal(t, "ref tail", d.StripDates("ref 01/03/25 tail"))
}

func TestDialectPageMarkers(t *testing.T) {
	hdfc := MustCompile(hdfcDescriptor)

	m := hdfc.PageStart("--- Page 3 ---")
	require.NotNil(t, m)
	assert.Equal(t, "3", m[1])
	assert.Nil(t, hdfc.PageStart("Page No .: 3"))

	assert.True(t, hdfc.IsPageEnd("Page No .: 3"))
	matched, page := hdfc.PageEndIn("UPI-SHOP Page No .: 2 tail")
	assert.Equal(t, "Page No .: 2", matched)
	assert.Equal(t, "2", page)
	assert.Equal(t, "UPI-SHOP tail", hdfc.StripPageEnd("UPI-SHOP Page No .: 2 tail"))

	icici := MustCompile(iciciDescriptor)
	m = icici.PageStart("Page 2 of 5")
	require.NotNil(t, m)
	assert.Equal(t, "2", m[1])
	assert.True(t, icici.IsPageEnd("Page 2 of 5"))
}

func TestDetectMode(t *testing.T) {
	hdfc := MustCompile(hdfcDescriptor)
	assert.Equal(t, "UPI", hdfc.DetectMode("UPI-COFFEE SHOP PAYMENT"))
	assert.Equal(t, "NEFT", hdfc.DetectMode("NEFT-ACME SALARY"))
	assert.Equal(t, "", hdfc.DetectMode("OPENING BALANCE B/F"))

	// Display-mode dialects only surface whitelisted phrases.
	icici := MustCompile(iciciDescriptor)
	assert.Equal(t, "MOBILE BANKING", icici.DetectMode("MOBILE BANKING SI ACH RETURN"))
	assert.Equal(t, "", icici.DetectMode("NEFT INWARD REMITTANCE"))
}

func TestSuggestsDebit(t *testing.T) {
	hdfc := MustCompile(hdfcDescriptor)
	assert.True(t, hdfc.SuggestsDebit("UPI-COFFEE SHOP"))
	assert.True(t, hdfc.SuggestsDebit("ATM CASH"))
	assert.False(t, hdfc.SuggestsDebit("CHEQUE DEPOSIT CLEARING"))
}

func TestRegistryGetAndDetect(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, []string{"hdfc", "icici"}, r.Keys())

	d, err := r.Get("hdfc")
	require.NoError(t, err)
	assert.Equal(t, "HDFC Bank", d.BankName)

	_, err = r.Get("sbi")
	assert.ErrorContains(t, err, "unknown dialect")

	d, err = r.Detect("statement issued by HDFC BANK Ltd.")
	require.NoError(t, err)
	assert.Equal(t, "hdfc", d.Key)

	d, err = r.Detect("ICICI Bank Limited statement")
	require.NoError(t, err)
	assert.Equal(t, "icici", d.Key)

	_, err = r.Detect("no bank mentioned here")
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	r := NewRegistry()

	yaml := []byte(`
dialects:
  - key: somebank
    bankName: Some Bank
    indicators: ["SOME BANK"]
    datePatterns: ['\d{2}/\d{2}/\d{4}']
    pageStartPattern: '^Page (\d+)$'
    amountColumns: 2
    hasReference: true
    reconcile: corrective
`)
	require.NoError(t, r.LoadYAML(yaml))

	d, err := r.Get("somebank")
	require.NoError(t, err)
	assert.Equal(t, "Some Bank", d.BankName)
	assert.True(t, d.Matches("statement from SOME BANK plc"))
	assert.Equal(t, ModeCorrective, d.Reconcile)
}

func TestLoadYAMLErrors(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.LoadYAML([]byte("dialects: []")))
	assert.Error(t, r.LoadYAML([]byte("{not yaml")))
	assert.Error(t, r.LoadYAML([]byte(`
dialects:
  - key: broken
    amountColumns: 9
    reconcile: corrective
`)))
}
