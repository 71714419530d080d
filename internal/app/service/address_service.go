package service

import (
	"errors"

	"github.com/clothely/clothely-backend/internal/app/model"
	"github.com/clothely/clothely-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressInput struct {
	Label      string
	Recipient  string
	Phone      string
	Line1      string
	Line2      string
	City       string
	PostalCode string
	Country    string
	IsDefault  bool
}

type AddressService interface {
	ListAddresses(userID uint) ([]model.Address, error)
	CreateAddress(userID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
}

type addressService struct {
	addresses repository.AddressRepository
}

func NewAddressService(addresses repository.AddressRepository) AddressService {
	return &addressService{addresses: addresses}
}

func (s *addressService) ListAddresses(userID uint) ([]model.Address, error) {
	return s.addresses.FindByUserID(userID)
}

func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.Address, error) {
	if input.IsDefault {
		if err := s.addresses.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	address := &model.Address{
		UserID:     userID,
		Label:      input.Label,
		Recipient:  input.Recipient,
		Phone:      input.Phone,
		Line1:      input.Line1,
		Line2:      input.Line2,
		City:       input.City,
		PostalCode: input.PostalCode,
		Country:    input.Country,
		IsDefault:  input.IsDefault,
	}
	if address.Country == "" {
		address.Country = "KR"
	}
	if err := s.addresses.Create(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	address, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	if input.IsDefault && !address.IsDefault {
		if err := s.addresses.ClearDefault(userID); err != nil {
			return nil, err
		}
	}

	address.Label = input.Label
	address.Recipient = input.Recipient
	address.Phone = input.Phone
	address.Line1 = input.Line1
	address.Line2 = input.Line2
	address.City = input.City
	address.PostalCode = input.PostalCode
	if input.Country != "" {
		address.Country = input.Country
	}
	address.IsDefault = input.IsDefault

	if err := s.addresses.Update(address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	address, err := s.ownedAddress(userID, addressID)
	if err != nil {
		return err
	}
	return s.addresses.Delete(address.ID)
}

func (s *addressService) ownedAddress(userID, addressID uint) (*model.Address, error) {
	address, err := s.addresses.FindByID(addressID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	if address.UserID != userID {
		return nil, ErrAddressNotFound
	}
	return address, nil
}
