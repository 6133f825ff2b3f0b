package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Company is the issuing business printed on every document. It is loaded
// once at start and never changes afterwards.
type Company struct {
	Name     string      `mapstructure:"name"`
	Address  []string    `mapstructure:"address"`
	Phone    string      `mapstructure:"phone"`
	Email    string      `mapstructure:"email"`
	GSTIN    string      `mapstructure:"gstin"`
	LogoURL  string      `mapstructure:"logoUrl"`
	Wordmark Wordmark    `mapstructure:"wordmark"`
	Bank     BankDetails `mapstructure:"bank"`
}

// Wordmark is the text logo drawn when the logo image cannot be fetched.
type Wordmark struct {
	Title    string `mapstructure:"title"`
	Subtitle string `mapstructure:"subtitle"`
}

type BankDetails struct {
	AccountName   string `mapstructure:"accountName"`
	AccountNumber string `mapstructure:"accountNumber"`
	Branch        string `mapstructure:"branch"`
	IFSC          string `mapstructure:"ifsc"`
}

func DefaultCompany() Company {
	return Company{
		Name: "NISSI OFFICE SYSTEMS",
		Address: []string{
			"Shop no. 3, H. no 2-22-248,",
			"Jayanagr, Kukatpally, Hyderabad - 500072.",
		},
		Phone:   "+91-7673909090",
		Email:   "nissiofficesystems@gmail.com",
		GSTIN:   "36ABMPU1856H1Z6",
		LogoURL: "https://uzdqrtkupkcyacyfcpfk.supabase.co/storage/v1/object/public/Nissi%20Images/Nissi-Office-Systems.jpg",
		Wordmark: Wordmark{
			Title:    "NISSI",
			Subtitle: "OFFICE SYSTEMS",
		},
		Bank: BankDetails{
			AccountName:   "NISSI OFFICE SYSTEMS",
			AccountNumber: "510101003246816",
			Branch:        "KUKATPALLY",
			IFSC:          "UBIN0907707",
		},
	}
}

// LoadCompany reads company.yml from the usual config locations, falling back
// to DefaultCompany for any key that is not set.
func LoadCompany() (Company, error) {
	v := viper.New()

	v.SetConfigName("company")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/officecrm")
	v.AddConfigPath(".")

	v.SetEnvPrefix("OFFICECRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCompany()
	v.SetDefault("company.name", defaults.Name)
	v.SetDefault("company.address", defaults.Address)
	v.SetDefault("company.phone", defaults.Phone)
	v.SetDefault("company.email", defaults.Email)
	v.SetDefault("company.gstin", defaults.GSTIN)
	v.SetDefault("company.logoUrl", defaults.LogoURL)
	v.SetDefault("company.wordmark.title", defaults.Wordmark.Title)
	v.SetDefault("company.wordmark.subtitle", defaults.Wordmark.Subtitle)
	v.SetDefault("company.bank.accountName", defaults.Bank.AccountName)
	v.SetDefault("company.bank.accountNumber", defaults.Bank.AccountNumber)
	v.SetDefault("company.bank.branch", defaults.Bank.Branch)
	v.SetDefault("company.bank.ifsc", defaults.Bank.IFSC)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Company{}, err
		}
	}

	// Unmarshal walks every known key, so file values merge with defaults
	// leaf by leaf instead of replacing the whole company section.
	var file struct {
		Company Company `mapstructure:"company"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return Company{}, err
	}
	if err := validateCompany(file.Company); err != nil {
		return Company{}, err
	}
	return file.Company, nil
}

func validateCompany(c Company) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("company.name cannot be empty")
	}
	if c.Wordmark.Title == "" {
		return errors.New("company.wordmark.title cannot be empty")
	}
	return nil
}
