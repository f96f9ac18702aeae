package google

import (
	"strconv"
	"strings"
	"time"

	"github.com/gbpdash/backend/internal/domain/business"
	"github.com/gbpdash/backend/internal/domain/integration"
)

// locationReadMask lists the Business Information fields the dashboard keeps
const locationReadMask = "name,title,storeCode,categories,profile,phoneNumbers,websiteUri,storefrontAddress,latlng,openInfo,metadata"

type accountJSON struct {
	Name              string `json:"name"`
	AccountName       string `json:"accountName"`
	Type              string `json:"type"`
	Role              string `json:"role"`
	VerificationState string `json:"verificationState"`
}

type listAccountsResponse struct {
	Accounts      []accountJSON `json:"accounts"`
	NextPageToken string        `json:"nextPageToken"`
}

type categoryJSON struct {
	Name        string `json:"name,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

type addressJSON struct {
	RegionCode         string   `json:"regionCode,omitempty"`
	PostalCode         string   `json:"postalCode,omitempty"`
	AdministrativeArea string   `json:"administrativeArea,omitempty"`
	Locality           string   `json:"locality,omitempty"`
	AddressLines       []string `json:"addressLines,omitempty"`
}

type latLngJSON struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type categoriesJSON struct {
	PrimaryCategory *categoryJSON `json:"primaryCategory,omitempty"`
}

type profileJSON struct {
	Description string `json:"description"`
}

type phoneNumbersJSON struct {
	PrimaryPhone string `json:"primaryPhone"`
}

type openInfoJSON struct {
	Status string `json:"status"`
}

type metadataJSON struct {
	MapsURI string `json:"mapsUri"`
}

type locationJSON struct {
	Name              string            `json:"name,omitempty"`
	Title             string            `json:"title,omitempty"`
	StoreCode         string            `json:"storeCode,omitempty"`
	Categories        *categoriesJSON   `json:"categories,omitempty"`
	Profile           *profileJSON      `json:"profile,omitempty"`
	PhoneNumbers      *phoneNumbersJSON `json:"phoneNumbers,omitempty"`
	WebsiteURI        string            `json:"websiteUri,omitempty"`
	StorefrontAddress *addressJSON      `json:"storefrontAddress,omitempty"`
	LatLng            *latLngJSON       `json:"latlng,omitempty"`
	OpenInfo          *openInfoJSON     `json:"openInfo,omitempty"`
	Metadata          *metadataJSON     `json:"metadata,omitempty"`
}

type listLocationsResponse struct {
	Locations     []locationJSON `json:"locations"`
	NextPageToken string         `json:"nextPageToken"`
}

func (l locationJSON) toPlatform() integration.PlatformLocation {
	p := business.LocationProfile{
		Title:      l.Title,
		StoreCode:  l.StoreCode,
		WebsiteURL: l.WebsiteURI,
		OpenStatus: business.OpenStatusUnspecified,
	}
	if l.Categories != nil && l.Categories.PrimaryCategory != nil {
		p.PrimaryCategory = l.Categories.PrimaryCategory.DisplayName
	}
	if l.Profile != nil {
		p.Description = l.Profile.Description
	}
	if l.PhoneNumbers != nil {
		p.PhoneNumber = l.PhoneNumbers.PrimaryPhone
	}
	if a := l.StorefrontAddress; a != nil {
		p.Address = business.Address{
			AddressLines:       strings.Join(a.AddressLines, "\n"),
			Locality:           a.Locality,
			AdministrativeArea: a.AdministrativeArea,
			PostalCode:         a.PostalCode,
			RegionCode:         a.RegionCode,
		}
	}
	if l.LatLng != nil {
		lat, lng := l.LatLng.Latitude, l.LatLng.Longitude
		p.Latitude, p.Longitude = &lat, &lng
	}
	if l.OpenInfo != nil && business.OpenStatus(l.OpenInfo.Status).IsValid() {
		p.OpenStatus = business.OpenStatus(l.OpenInfo.Status)
	}
	out := integration.PlatformLocation{Name: l.Name, Profile: p}
	if l.Metadata != nil {
		out.MapsURI = l.Metadata.MapsURI
	}
	return out
}

// locationFromProfile builds a PATCH body. Google only applies the masked fields.
func locationFromProfile(p business.LocationProfile) locationJSON {
	l := locationJSON{
		Title:      p.Title,
		StoreCode:  p.StoreCode,
		WebsiteURI: p.WebsiteURL,
	}
	if p.PrimaryCategory != "" {
		l.Categories = &categoriesJSON{PrimaryCategory: &categoryJSON{DisplayName: p.PrimaryCategory}}
	}
	l.Profile = &profileJSON{Description: p.Description}
	l.PhoneNumbers = &phoneNumbersJSON{PrimaryPhone: p.PhoneNumber}
	l.StorefrontAddress = &addressJSON{
		RegionCode:         p.Address.RegionCode,
		PostalCode:         p.Address.PostalCode,
		AdministrativeArea: p.Address.AdministrativeArea,
		Locality:           p.Address.Locality,
		AddressLines:       splitLines(p.Address.AddressLines),
	}
	if p.Latitude != nil && p.Longitude != nil {
		l.LatLng = &latLngJSON{Latitude: *p.Latitude, Longitude: *p.Longitude}
	}
	if p.OpenStatus != "" && p.OpenStatus != business.OpenStatusUnspecified {
		l.OpenInfo = &openInfoJSON{Status: string(p.OpenStatus)}
	}
	return l
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

type replyJSON struct {
	Comment    string `json:"comment"`
	UpdateTime string `json:"updateTime,omitempty"`
}

type reviewJSON struct {
	Name     string `json:"name"`
	Reviewer struct {
		DisplayName     string `json:"displayName"`
		ProfilePhotoURL string `json:"profilePhotoUrl"`
		IsAnonymous     bool   `json:"isAnonymous"`
	} `json:"reviewer"`
	StarRating  string     `json:"starRating"`
	Comment     string     `json:"comment"`
	CreateTime  string     `json:"createTime"`
	UpdateTime  string     `json:"updateTime"`
	ReviewReply *replyJSON `json:"reviewReply"`
}

type listReviewsResponse struct {
	Reviews          []reviewJSON `json:"reviews"`
	AverageRating    float64      `json:"averageRating"`
	TotalReviewCount int          `json:"totalReviewCount"`
	NextPageToken    string       `json:"nextPageToken"`
}

var starRatings = map[string]int{"ONE": 1, "TWO": 2, "THREE": 3, "FOUR": 4, "FIVE": 5}

func (r reviewJSON) toPlatform() integration.PlatformReview {
	out := integration.PlatformReview{
		Name:             r.Name,
		ReviewerName:     r.Reviewer.DisplayName,
		ReviewerPhotoURL: r.Reviewer.ProfilePhotoURL,
		IsAnonymous:      r.Reviewer.IsAnonymous,
		StarRating:       starRatings[r.StarRating],
		Comment:          r.Comment,
		CreateTime:       parseTime(r.CreateTime),
		UpdateTime:       parseTime(r.UpdateTime),
	}
	if r.ReviewReply != nil {
		out.ReplyComment = r.ReviewReply.Comment
		if t := parseTime(r.ReviewReply.UpdateTime); !t.IsZero() {
			out.ReplyUpdateTime = &t
		}
	}
	return out
}

type authorJSON struct {
	DisplayName string `json:"displayName,omitempty"`
	Type        string `json:"type,omitempty"`
}

type answerJSON struct {
	Name       string     `json:"name,omitempty"`
	Author     authorJSON `json:"author"`
	Text       string     `json:"text"`
	UpdateTime string     `json:"updateTime,omitempty"`
}

func (a answerJSON) toPlatform() integration.PlatformAnswer {
	return integration.PlatformAnswer{
		Name:       a.Name,
		Text:       a.Text,
		AuthorType: a.Author.Type,
		UpdateTime: parseTime(a.UpdateTime),
	}
}

type questionJSON struct {
	Name             string       `json:"name"`
	Author           authorJSON   `json:"author"`
	Text             string       `json:"text"`
	UpvoteCount      int          `json:"upvoteCount"`
	TotalAnswerCount int          `json:"totalAnswerCount"`
	CreateTime       string       `json:"createTime"`
	UpdateTime       string       `json:"updateTime"`
	TopAnswers       []answerJSON `json:"topAnswers"`
}

type listQuestionsResponse struct {
	Questions     []questionJSON `json:"questions"`
	NextPageToken string         `json:"nextPageToken"`
}

const authorTypeMerchant = "MERCHANT"

func (q questionJSON) toPlatform() integration.PlatformQuestion {
	out := integration.PlatformQuestion{
		Name:             q.Name,
		AuthorName:       q.Author.DisplayName,
		AuthorType:       q.Author.Type,
		Text:             q.Text,
		UpvoteCount:      q.UpvoteCount,
		TotalAnswerCount: q.TotalAnswerCount,
		CreateTime:       parseTime(q.CreateTime),
		UpdateTime:       parseTime(q.UpdateTime),
	}
	for _, a := range q.TopAnswers {
		if a.Author.Type == authorTypeMerchant {
			answer := a.toPlatform()
			out.OwnerAnswer = &answer
			break
		}
	}
	return out
}

type dateJSON struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type timeOfDayJSON struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

type callToActionJSON struct {
	ActionType string `json:"actionType"`
	URL        string `json:"url,omitempty"`
}

type scheduleJSON struct {
	StartDate dateJSON      `json:"startDate"`
	StartTime timeOfDayJSON `json:"startTime"`
	EndDate   dateJSON      `json:"endDate"`
	EndTime   timeOfDayJSON `json:"endTime"`
}

type eventJSON struct {
	Title    string       `json:"title"`
	Schedule scheduleJSON `json:"schedule"`
}

type offerJSON struct {
	CouponCode      string `json:"couponCode,omitempty"`
	RedeemOnlineURL string `json:"redeemOnlineUrl,omitempty"`
	TermsConditions string `json:"termsConditions,omitempty"`
}

type postMediaJSON struct {
	MediaFormat string `json:"mediaFormat"`
	SourceURL   string `json:"sourceUrl"`
}

type localPostJSON struct {
	LanguageCode string            `json:"languageCode,omitempty"`
	Summary      string            `json:"summary,omitempty"`
	TopicType    string            `json:"topicType"`
	CallToAction *callToActionJSON `json:"callToAction,omitempty"`
	Event        *eventJSON        `json:"event,omitempty"`
	Offer        *offerJSON        `json:"offer,omitempty"`
	Media        []postMediaJSON   `json:"media,omitempty"`
}

type localPostResponse struct {
	Name      string `json:"name"`
	SearchURL string `json:"searchUrl"`
	State     string `json:"state"`
}

func localPostFromRequest(req integration.LocalPostRequest) localPostJSON {
	p := localPostJSON{
		LanguageCode: req.LanguageCode,
		Summary:      req.Summary,
		TopicType:    req.TopicType,
	}
	if req.ActionType != "" {
		p.CallToAction = &callToActionJSON{ActionType: req.ActionType, URL: req.ActionURL}
	}
	if req.EventTitle != "" && req.EventStart != nil && req.EventEnd != nil {
		p.Event = &eventJSON{Title: req.EventTitle}
		p.Event.Schedule.StartDate, p.Event.Schedule.StartTime = splitDateTime(*req.EventStart)
		p.Event.Schedule.EndDate, p.Event.Schedule.EndTime = splitDateTime(*req.EventEnd)
	}
	if req.CouponCode != "" || req.RedeemURL != "" || req.Terms != "" {
		p.Offer = &offerJSON{CouponCode: req.CouponCode, RedeemOnlineURL: req.RedeemURL, TermsConditions: req.Terms}
	}
	if req.MediaURL != "" {
		p.Media = []postMediaJSON{{MediaFormat: req.MediaFormat, SourceURL: req.MediaURL}}
	}
	return p
}

func splitDateTime(t time.Time) (dateJSON, timeOfDayJSON) {
	t = t.UTC()
	return dateJSON{Year: t.Year(), Month: int(t.Month()), Day: t.Day()},
		timeOfDayJSON{Hours: t.Hour(), Minutes: t.Minute()}
}

type mediaJSON struct {
	MediaFormat         string `json:"mediaFormat"`
	LocationAssociation struct {
		Category string `json:"category"`
	} `json:"locationAssociation"`
	SourceURL   string `json:"sourceUrl"`
	Description string `json:"description,omitempty"`
}

type mediaResponse struct {
	Name      string `json:"name"`
	GoogleURL string `json:"googleUrl"`
}

type datedValueJSON struct {
	Date  dateJSON `json:"date"`
	Value string   `json:"value"` // int64 as string, absent for zero
}

type multiDailyMetricsResponse struct {
	MultiDailyMetricTimeSeries []struct {
		DailyMetricTimeSeries []struct {
			DailyMetric string `json:"dailyMetric"`
			TimeSeries  struct {
				DatedValues []datedValueJSON `json:"datedValues"`
			} `json:"timeSeries"`
		} `json:"dailyMetricTimeSeries"`
	} `json:"multiDailyMetricTimeSeries"`
}

func (r multiDailyMetricsResponse) toSeries() []integration.MetricSeries {
	var out []integration.MetricSeries
	for _, multi := range r.MultiDailyMetricTimeSeries {
		for _, ts := range multi.DailyMetricTimeSeries {
			series := integration.MetricSeries{Metric: integration.DailyMetric(ts.DailyMetric)}
			for _, dv := range ts.TimeSeries.DatedValues {
				value, _ := strconv.ParseInt(dv.Value, 10, 64)
				series.Points = append(series.Points, integration.DailyPoint{
					Date:  time.Date(dv.Date.Year, time.Month(dv.Date.Month), dv.Date.Day, 0, 0, 0, 0, time.UTC),
					Value: value,
				})
			}
			out = append(out, series)
		}
	}
	return out
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
