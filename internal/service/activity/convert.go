package activity

import (
	"huddle_server/internal/dao/db/repository"
	"huddle_server/internal/dto/respond"
)

func toActivityRespond(row repository.ActivityWithStats) respond.ActivityRespond {
	return respond.ActivityRespond{
		Id:               row.Uuid,
		Title:            row.Title,
		Category:         row.Category,
		Description:      row.Description,
		Location:         row.Location,
		ScheduledAt:      row.ScheduledAt.UTC(),
		Capacity:         row.Capacity,
		ParticipantCount: row.ParticipantCount,
		Organizer: respond.OrganizerRespond{
			Id:                row.OrganizerId,
			Name:              row.OrganizerName,
			ProfilePictureUrl: row.OrganizerPicture,
		},
		IsCancelled: row.IsCancelled,
		CreatedAt:   row.CreatedAt.UTC(),
	}
}

// 使用 make 初始化，确保序列化后是 [] 而不是 null
func toActivityRespondList(rows []repository.ActivityWithStats) []respond.ActivityRespond {
	list := make([]respond.ActivityRespond, 0, len(rows))
	for _, row := range rows {
		list = append(list, toActivityRespond(row))
	}
	return list
}

func toParticipantRespondList(rows []repository.ParticipantWithUser) []respond.ParticipantRespond {
	list := make([]respond.ParticipantRespond, 0, len(rows))
	for _, row := range rows {
		list = append(list, respond.ParticipantRespond{
			UserId:            row.UserId,
			Name:              row.Name,
			ProfilePictureUrl: row.ProfilePictureUrl,
			JoinedAt:          row.JoinedAt.UTC(),
		})
	}
	return list
}

func toMessageRespondList(rows []repository.MessageWithSender) []respond.MessageRespond {
	list := make([]respond.MessageRespond, 0, len(rows))
	for _, row := range rows {
		list = append(list, respond.MessageRespond{
			Id:         row.Uuid,
			ActivityId: row.ActivityId,
			SenderId:   row.SenderId,
			SenderName: row.SenderName,
			Content:    row.Content,
			CreatedAt:  row.CreatedAt.UTC(),
		})
	}
	return list
}
