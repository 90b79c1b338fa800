package store

import (
	"database/sql"

	"github.com/yourorg/realty-api/idx"
)

func scanListing(rows *sql.Rows) (idx.Listing, error) {
	var (
		l                  idx.Listing
		features, images   string
		isFeatured, isNew  int
		agentID, agentName sql.NullString
		agentPhoto         sql.NullString
		agentPhone         sql.NullString
		agentEmail         sql.NullString
	)
	err := rows.Scan(
		&l.ID, &l.MLSNumber, &l.Title, &l.Price, &l.Address, &l.City, &l.State, &l.Zip,
		&l.Beds, &l.Baths, &l.Sqft, &l.Description, &l.PropertyType, &l.YearBuilt,
		&features, &images, &isFeatured, &isNew, &l.Status, &l.ListingDate,
		&l.Latitude, &l.Longitude,
		&agentID, &agentName, &agentPhoto, &agentPhone, &agentEmail,
	)
	if err != nil {
		return idx.Listing{}, err
	}
	l.Features = decodeStringList(features)
	l.Images = decodeStringList(images)
	l.IsFeatured = isFeatured == 1
	l.IsNew = isNew == 1
	l.Agent = idx.Agent{
		ID:    agentID.String,
		Name:  agentName.String,
		Photo: agentPhoto.String,
		Phone: agentPhone.String,
		Email: agentEmail.String,
	}
	return l, nil
}
